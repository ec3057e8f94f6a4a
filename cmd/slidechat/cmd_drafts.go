package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidechat/internal/orchestrator"
)

func newDraftsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage locally saved drafts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List drafts, newest first",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := loadRuntime(flags)
				if err != nil {
					return err
				}
				defer rt.Close()
				orch := orchestrator.New(orchestrator.Options{Store: rt.store, Catalog: rt.cat, Log: rt.log})
				fmt.Fprintln(cmd.OutOrStdout(), orch.RenderDraftList())
				return nil
			},
		},
		&cobra.Command{
			Use:     "delete <id>",
			Aliases: []string{"rm"},
			Short:   "Delete a draft",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := loadRuntime(flags)
				if err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.store.DeleteDraft(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), rt.cat.T("draft.deleted", args[0]))
				return nil
			},
		},
	)
	return cmd
}
