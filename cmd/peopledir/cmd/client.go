package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/castlegate/peopledir/internal/directory"
)

// directoryClient is the subset of the directory engine the commands call.
// Satisfied by *directory.Engine; tests substitute fakes.
type directoryClient interface {
	FindUser(ctx context.Context, accountName string, attributes []string) ([]*directory.Entry, error)
	FindMatchingUsers(ctx context.Context, text string, attributes []string) ([]*directory.Entry, error)
	Login(ctx context.Context, accountName, password string, attributes []string) (*directory.Entry, error)
}

type clientDeps struct {
	newClient func(cfg *directory.Config) (directoryClient, error)
	lookupEnv func(string) (string, bool)
}

func realClientDeps() clientDeps {
	return clientDeps{
		newClient: func(cfg *directory.Config) (directoryClient, error) {
			return directory.NewEngine(cfg)
		},
		lookupEnv: os.LookupEnv,
	}
}

type connectionParams struct {
	urls          []string
	domain        string
	baseDN        string
	bindDN        string
	excludedOUs   []string
	contractorOU  string
	excludeFilter string
	timeout       time.Duration
	logLevel      string
}

func addConnectionFlags(cmd *cobra.Command, params *connectionParams) {
	cmd.Flags().StringSliceVar(&params.urls, "url", nil, "LDAP URL to connect to (ldap:// or ldaps://); repeatable")
	cmd.Flags().StringVar(&params.domain, "domain", "", "Domain for SRV server discovery when no URLs are given")
	cmd.Flags().StringVar(&params.baseDN, "base-dn", "", "Base DN for all searches")
	cmd.Flags().StringVar(&params.bindDN, "bind-dn", "", "Service account bind DN or principal (password from $PEOPLEDIR_BIND_PASSWORD)")
	cmd.Flags().StringSliceVar(&params.excludedOUs, "exclude-ou", nil, "OU whose entries are dropped from results; repeatable")
	cmd.Flags().StringVar(&params.contractorOU, "contractor-ou", "", "OU whose members are classified as contractors")
	cmd.Flags().StringVar(&params.excludeFilter, "exclude-filter", "", "Filter fragment AND-NOT'd into person searches")
	cmd.Flags().DurationVar(&params.timeout, "timeout", 30*time.Second, "Network timeout")
	cmd.Flags().StringVar(&params.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	mustMarkRequired(cmd, "base-dn")
}

func (p *connectionParams) config(deps clientDeps) *directory.Config {
	bindPassword, _ := deps.lookupEnv("PEOPLEDIR_BIND_PASSWORD")

	return &directory.Config{
		URLs:          p.urls,
		Domain:        p.domain,
		BaseDN:        p.baseDN,
		BindDN:        p.bindDN,
		BindPassword:  bindPassword,
		Timeout:       p.timeout,
		ExcludedOUs:   p.excludedOUs,
		ContractorOU:  p.contractorOU,
		ExcludeFilter: p.excludeFilter,
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:  "peopledir",
			Level: hclog.LevelFromString(p.logLevel),
		}),
	}
}

// commandContext bounds a command's directory operations. Login dials twice,
// so the bound is double the per-connection timeout.
func commandContext(cmd *cobra.Command, params *connectionParams) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*params.timeout)
}

func printEntries(out io.Writer, entries []*directory.Entry) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
