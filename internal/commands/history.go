package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/conversation"
	"github.com/avocarbon/kbchat/internal/models"
	"github.com/avocarbon/kbchat/internal/session"
)

var (
	historyLimitFlag  int
	historyOffsetFlag int
	historyConvFlag   string
	historyForceFlag  bool
	exportFormatFlag  string
	exportOutputFlag  string
)

// historyCmd manages server-side conversation history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage server-side conversation history",
}

// historyListCmd shows prior messages
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show prior messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.History(context.Background(), historyLimitFlag, historyOffsetFlag, historyConvFlag)
		if err != nil {
			fmt.Println(formatErrorMessage(err, "History fetch failed"))
			return fmt.Errorf("history fetch failed: %w", err)
		}

		if len(resp.Messages) == 0 {
			fmt.Println("No history.")
			return nil
		}

		roleStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
		userStyle := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
		timeStyle := lipgloss.NewStyle().Foreground(colorTextDim)

		fmt.Printf("Showing %d of %d message(s):\n\n", len(resp.Messages), resp.Total)
		for _, msg := range resp.Messages {
			style := roleStyle
			if msg.Role == models.RoleUser {
				style = userStyle
			}
			header := style.Render(msg.Role)
			if msg.Timestamp != "" {
				header += timeStyle.Render("  " + msg.Timestamp)
			}
			if msg.ContextCount > 0 {
				header += timeStyle.Render(fmt.Sprintf("  (%d context item(s))", msg.ContextCount))
			}
			fmt.Println(header)
			fmt.Println(truncate(strings.TrimSpace(msg.Content), 500))
			fmt.Println()
		}

		return nil
	},
}

// historyClearCmd wipes the server-side history
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear server-side history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyForceFlag {
			fmt.Print("This clears the conversation history on the server. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.ClearHistory(context.Background())
		if err != nil {
			fmt.Println(formatErrorMessage(err, "Clear failed"))
			return fmt.Errorf("clear failed: %w", err)
		}

		msg := resp.Message
		if msg == "" {
			msg = "History cleared"
		}
		fmt.Println(lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ " + msg))
		return nil
	},
}

// historyExportCmd writes the server-side history as a transcript
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history as markdown or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := session.ParseExportFormat(exportFormatFlag)
		if err != nil {
			return err
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.History(context.Background(), historyLimitFlag, historyOffsetFlag, historyConvFlag)
		if err != nil {
			fmt.Println(formatErrorMessage(err, "History fetch failed"))
			return fmt.Errorf("history fetch failed: %w", err)
		}

		chat := &models.Chat{
			ID:    conversation.DefaultConversationID,
			Title: "Conversation",
		}
		for _, hm := range resp.Messages {
			chat.Messages = append(chat.Messages, models.Message{
				ID:        session.NewMessageID(),
				Role:      hm.Role,
				Content:   hm.Content,
				Timestamp: hm.Timestamp,
			})
		}

		data, err := session.Export(chat, format)
		if err != nil {
			return err
		}

		if exportOutputFlag == "" || exportOutputFlag == "-" {
			fmt.Print(string(data))
			return nil
		}

		if err := os.WriteFile(exportOutputFlag, data, 0o600); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		fmt.Println(lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Exported to " + exportOutputFlag))
		return nil
	},
}

func init() {
	historyCmd.PersistentFlags().IntVar(&historyLimitFlag, "limit", 50, "Maximum number of messages")
	historyCmd.PersistentFlags().IntVar(&historyOffsetFlag, "offset", 0, "Number of messages to skip")
	historyCmd.PersistentFlags().StringVar(&historyConvFlag, "conversation", conversation.DefaultConversationID, "Conversation ID")
	historyClearCmd.Flags().BoolVarP(&historyForceFlag, "force", "y", false, "Skip confirmation prompt")
	historyExportCmd.Flags().StringVar(&exportFormatFlag, "format", "markdown", "Export format (markdown, json)")
	historyExportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Output file (default stdout)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}
