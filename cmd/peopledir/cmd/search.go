package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCommand(realClientDeps()))
	rootCmd.AddCommand(accountCommand(realClientDeps()))
}

func searchCommand(deps clientDeps) *cobra.Command {
	var params connectionParams

	cmd := &cobra.Command{
		Args:         cobra.ExactArgs(1),
		Use:          "search TEXT",
		Short:        "Search for people by name fragment or phone number",
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

		entries, err := client.FindMatchingUsers(ctx, args[0], nil)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), entries)
	}

	return cmd
}

func accountCommand(deps clientDeps) *cobra.Command {
	var params connectionParams

	cmd := &cobra.Command{
		Args:         cobra.ExactArgs(1),
		Use:          "account NAME",
		Short:        "Look up accounts by exact account name",
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

		entries, err := client.FindUser(ctx, args[0], nil)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), entries)
	}

	return cmd
}
