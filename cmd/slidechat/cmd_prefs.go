package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"slidechat/internal/prefs"
	"slidechat/internal/storage"
)

func newPrefsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the style colors and logo used when saving",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			colors, logo, err := storage.LoadPrefs(rt.store)
			if err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), colors, logo)
			return nil
		},
	}

	colors := &cobra.Command{
		Use:   "colors <content-text> <highlight> <forms-bg>",
		Short: "Set the style colors (hex, e.g. #1a2b3c)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := prefs.NewStyleColors(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := storage.SaveStyleColors(rt.store, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rt.cat.T("prefs.colors_saved"))
			return nil
		},
	}

	logo := &cobra.Command{
		Use:   "logo <image-file> <position>",
		Short: "Set the logo image and corner (top-left, top-right, bottom-left, bottom-right)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := prefs.ParseLogoPosition(args[1])
			if err != nil {
				return err
			}
			dataURL, err := prefs.LoadLogoFile(args[0])
			if err != nil {
				return err
			}
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := storage.SaveLogoSettings(rt.store, prefs.LogoSettings{LogoDataURL: dataURL, LogoPosition: pos}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", rt.cat.T("prefs.logo_saved"), pos)
			return nil
		},
	}

	cmd.AddCommand(show, colors, logo)
	return cmd
}

func printPrefs(w io.Writer, colors prefs.StyleColors, logo prefs.LogoSettings) {
	fmt.Fprintln(w, "Style colors:")
	if colors == (prefs.StyleColors{}) {
		fmt.Fprintln(w, "  (not set)")
	} else {
		p := colors.Palette()
		fmt.Fprintf(w, "  content text: %-8s %s\n", orDefault(colors.ContentTextColor), p.ContentText)
		fmt.Fprintf(w, "  highlight:    %-8s %s\n", orDefault(colors.HighlightColor), p.Highlight)
		fmt.Fprintf(w, "  forms bg:     %-8s %s\n", orDefault(colors.FormsBgColor), p.FormsBg)
	}
	fmt.Fprintln(w, "Logo:")
	if logo.LogoDataURL == "" {
		fmt.Fprintln(w, "  (not set)")
		return
	}
	fmt.Fprintf(w, "  position: %s\n", logo.LogoPosition)
	fmt.Fprintf(w, "  image:    %d bytes (data URL)\n", len(logo.LogoDataURL))
}

func orDefault(hex string) string {
	if hex == "" {
		return "default"
	}
	return hex
}
