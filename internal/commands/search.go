package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/assets"
	"github.com/avocarbon/kbchat/internal/models"
)

var searchLimitFlag int

// searchCmd queries the knowledge base without a chat turn
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long: `Search the knowledge base directly and list the matching documents
with their similarity scores and attachments.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return fmt.Errorf("query cannot be empty")
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.Search(context.Background(), models.SearchRequest{
			Query: query,
			TopK:  searchLimitFlag,
		})
		if err != nil {
			fmt.Println(formatErrorMessage(err, "Search failed"))
			return fmt.Errorf("search failed: %w", err)
		}

		if len(resp.Results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		titleStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
		metaStyle := lipgloss.NewStyle().Foreground(colorTextDim)

		fmt.Printf("Found %d result(s):\n\n", len(resp.Results))
		for i, item := range resp.Results {
			fmt.Printf("%d. %s %s\n", i+1,
				titleStyle.Render(item.Title),
				metaStyle.Render(fmt.Sprintf("[%s, score %.2f]", item.NodeType, item.Similarity)),
			)

			if content := strings.TrimSpace(item.Content); content != "" {
				fmt.Println(sourceLineStyle.Render(truncate(content, 200)))
			}

			images, files := assets.Resolve([]models.ContextItem{item})
			base := client.BaseURL()
			for _, att := range images {
				if url := assets.ImageURL(base, att.FilePath, att.FileName); url != "" {
					fmt.Println(sourceLineStyle.Render("🖼 " + att.FileName + "  " + linkLineStyle.Render(url)))
				}
			}
			for _, att := range files {
				if url := assets.DownloadURL(base, att.FilePath, att.FileName); url != "#" {
					fmt.Println(sourceLineStyle.Render("📄 " + att.FileName + "  " + linkLineStyle.Render(url)))
				}
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimitFlag, "limit", "l", 0, "Maximum number of results")
}

// truncate shortens s to max runes, appending an ellipsis when cut
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
