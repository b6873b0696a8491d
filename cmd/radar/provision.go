package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProvisionCmd(opts *rootOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a personal starter radar for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			user, err := app.userService.GetByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("failed to find user %q: %w", username, err)
			}
			if err := app.provisioner.Provision(cmd.Context(), user); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "provisioned a starter radar for %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username to provision")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
