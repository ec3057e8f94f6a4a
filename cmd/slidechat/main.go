package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "slidechat: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags 全局命令行参数
// rootFlags holds the persistent command-line flags
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "slidechat",
		Short: "Build presentations through a conversation",
		Long: `slidechat builds slide decks through a chat: create or upload a
presentation, add slides with manual or AI-generated content, preview it
and save it through the generation gateway.

Run without arguments to start the interactive chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.cfg.UI.TUI {
				return runTUI(cmd.Context(), rt)
			}
			return runChat(cmd.Context(), rt)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config JSON/JSONC")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the full-screen interface",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := loadRuntime(flags)
				if err != nil {
					return err
				}
				defer rt.Close()
				return runTUI(cmd.Context(), rt)
			},
		},
		newServeCmd(flags),
		newPrefsCmd(flags),
		newDraftsCmd(flags),
		newConfigCmd(),
	)
	return root
}
