package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [show|toggle|dark|light]",
	Short:     "Show or change the saved color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"show", "toggle", "dark", "light"},
	Annotations: map[string]string{
		offlineAnnotation: "true",
	},
	RunE: runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	var err error
	switch action {
	case "show":
	case "toggle":
		_, err = prefs.ToggleTheme()
	case "dark":
		err = prefs.SetTheme(true)
	case "light":
		err = prefs.SetTheme(false)
	default:
		return fmt.Errorf("unknown theme action %q (show, toggle, dark, light)", action)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Theme: %s\n", themeName(prefs.DarkMode()))
	return nil
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
