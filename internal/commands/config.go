package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/config"
	"github.com/avocarbon/kbchat/internal/render"
)

// configCmd manages the local client configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client configuration",
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		keyStyle := lipgloss.NewStyle().Foreground(colorPrimary)

		rows := []struct {
			key   string
			value string
		}{
			{"base_url", cfg.BaseURL},
			{"include_context", strconv.FormatBool(cfg.IncludeContext)},
			{"top_k", strconv.Itoa(cfg.TopK)},
			{"timeout_seconds", strconv.Itoa(cfg.TimeoutSeconds)},
			{"verbose", strconv.FormatBool(cfg.Verbose)},
			{"copy_to_clipboard", strconv.FormatBool(cfg.CopyToClipboard)},
			{"tui_theme", cfg.TUITheme},
			{"download_dir", cfg.DownloadDir},
			{"markdown_style", cfg.Markdown.Style},
		}
		for _, row := range rows {
			fmt.Printf("%s = %s\n", keyStyle.Render(row.key), row.value)
		}

		if path, err := config.GetConfigPath(); err == nil {
			fmt.Println(lipgloss.NewStyle().Foreground(colorTextDim).Render("\nConfig file: " + path))
		}
		return nil
	},
}

// configSetCmd changes one configuration value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to disk.

Keys: base_url, include_context, top_k, timeout_seconds, verbose,
copy_to_clipboard, tui_theme, download_dir, markdown_style`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		key := strings.ToLower(args[0])
		value := args[1]

		switch key {
		case "base_url":
			cfg.BaseURL = value
		case "include_context":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("include_context must be true or false")
			}
			cfg.IncludeContext = b
		case "top_k":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("top_k must be a positive integer")
			}
			cfg.TopK = n
		case "timeout_seconds":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("timeout_seconds must be a positive integer")
			}
			cfg.TimeoutSeconds = n
		case "verbose":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("verbose must be true or false")
			}
			cfg.Verbose = b
		case "copy_to_clipboard":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("copy_to_clipboard must be true or false")
			}
			cfg.CopyToClipboard = b
		case "tui_theme":
			if _, ok := render.GetTUIThemeByName(value); !ok {
				return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
			}
			cfg.TUITheme = value
		case "download_dir":
			cfg.DownloadDir = value
		case "markdown_style":
			cfg.Markdown.Style = value
		default:
			return fmt.Errorf("unknown key %q", key)
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println(lipgloss.NewStyle().Foreground(colorSuccess).Render(fmt.Sprintf("✓ %s = %s", key, value)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
