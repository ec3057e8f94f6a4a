package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slidechat/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or edit the project config (.slidechat/config.json)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a config scaffold in the current directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := os.Getwd()
				if err != nil {
					return err
				}
				path, created, err := config.InitProjectConfigScaffold(dir)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <section.key> <value>",
			Short: "Set one value in the project config",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := os.Getwd()
				if err != nil {
					return err
				}
				if err := config.SetProjectValue(dir, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}
