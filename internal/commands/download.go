package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/api"
	"github.com/avocarbon/kbchat/internal/config"
	"github.com/avocarbon/kbchat/internal/models"
)

var (
	downloadDirFlag  string
	downloadNameFlag string
)

// downloadCmd fetches a knowledge-base attachment by its server path
var downloadCmd = &cobra.Command{
	Use:   "download <file-path>",
	Short: "Download a knowledge-base attachment",
	Long: `Download an attachment from the knowledge base by its server-side file
path, as shown in search results and answer sources.

Examples:
  kbchat download uploads/report.pdf
  kbchat download report.pdf -d ~/Documents
  kbchat download uploads/img/chart.png -n chart.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		dir := downloadDirFlag
		if dir == "" {
			dir, err = config.GetDownloadDir(cfg)
			if err != nil {
				return err
			}
		}

		spin := newSpinner("Downloading")
		spin.start()

		path, err := client.DownloadAttachment(context.Background(), models.Attachment{
			FilePath: args[0],
			FileName: downloadNameFlag,
		}, api.DownloadOptions{
			Directory: dir,
			Filename:  downloadNameFlag,
		})
		if err != nil {
			spin.stopWithError()
			fmt.Println(formatErrorMessage(err, "Download failed"))
			return fmt.Errorf("download failed: %w", err)
		}
		spin.stopWithSuccess("Downloaded")

		fmt.Println(lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Saved to " + path))
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDirFlag, "dir", "d", "", "Target directory (default: configured download dir)")
	downloadCmd.Flags().StringVarP(&downloadNameFlag, "name", "n", "", "Target filename (default: derived from the path)")
}
