package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castlegate/peopledir/internal/directory"
)

func init() {
	rootCmd.AddCommand(loginCommand(realClientDeps()))
}

func loginCommand(deps clientDeps) *cobra.Command {
	var params connectionParams

	cmd := &cobra.Command{
		Args:         cobra.ExactArgs(1),
		Use:          "login ACCOUNT",
		Short:        "Validate a credential (password from $PEOPLEDIR_PASSWORD)",
		SilenceUsage: true,
	}
	addConnectionFlags(cmd, &params)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		client, err := deps.newClient(params.config(deps))
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd, &params)
		defer cancel()

		password, _ := deps.lookupEnv("PEOPLEDIR_PASSWORD")
		entry, err := client.Login(ctx, args[0], password, nil)
		if err != nil {
			return err
		}

		if entry.Expired || entry.Disabled {
			fmt.Fprintf(cmd.ErrOrStderr(), "account ineligible: expired=%t disabled=%t\n", entry.Expired, entry.Disabled)
		}
		return printEntries(cmd.OutOrStdout(), []*directory.Entry{entry})
	}

	return cmd
}
