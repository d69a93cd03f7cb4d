// Package commands provides CLI commands for kbchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/api"
	"github.com/avocarbon/kbchat/internal/config"
)

var (
	// Global flags
	baseURLFlag string
	outputFlag  string
	fileFlag    string
	noContext   bool
	topKFlag    int
	timeoutFlag int

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kbchat [question]",
	Short: "Chat with a knowledge-base-backed assistant",
	Long: `kbchat is a terminal client for a knowledge-base-backed assistant.
Answers are grounded in documents retrieved from the backend's knowledge
base, with source attachments resolvable to download links.

Examples:
  kbchat chat                       Start interactive chat
  kbchat "What is our SLA?"         Send a single question
  kbchat -f question.md             Read question from file
  cat question.md | kbchat          Read question from stdin
  kbchat search "onboarding"        Search the knowledge base
  kbchat history list               Show server-side history`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("kbchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noContext, "no-context", false, "Skip knowledge base retrieval")
	rootCmd.PersistentFlags().IntVar(&topKFlag, "top-k", 0, "Number of context items to retrieve")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Request timeout in seconds")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(configCmd)
}

// newClient builds an API client from config plus flag overrides
func newClient() (*api.Client, config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}

	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if timeoutFlag > 0 {
		cfg.TimeoutSeconds = timeoutFlag
	}
	if noContext {
		cfg.IncludeContext = false
	}
	if topKFlag > 0 {
		cfg.TopK = topKFlag
	}

	client, err := api.NewClient(cfg.BaseURL,
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to create client: %w", err)
	}
	return client, cfg, nil
}
