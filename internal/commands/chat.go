package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avocarbon/kbchat/internal/config"
	"github.com/avocarbon/kbchat/internal/conversation"
	"github.com/avocarbon/kbchat/internal/render"
	"github.com/avocarbon/kbchat/internal/session"
	"github.com/avocarbon/kbchat/internal/tui"
)

// chatCmd starts the interactive chat TUI
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start interactive chat",
	Long: `Start an interactive chat session with the knowledge-base assistant.

The session seeds itself from the server's default conversation history.
Inside the chat, slash commands switch chats (/chats), stage local files
(/attach), browse answer attachments (/files), and export transcripts
(/export).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isStdoutTTY() {
			return fmt.Errorf("chat requires an interactive terminal")
		}

		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		if cfg.TUITheme != "" {
			if render.SetTUITheme(cfg.TUITheme) {
				tui.UpdateTheme()
			} else {
				fmt.Fprintf(os.Stderr, "Warning: unknown theme %q, using default\n", cfg.TUITheme)
			}
		}

		downloadDir, err := config.GetDownloadDir(cfg)
		if err != nil {
			return err
		}

		banner := &tui.Banner{}
		store := session.NewStore()
		ctrl := conversation.NewController(store, client, banner)

		return tui.Run(ctrl, client, banner, downloadDir)
	},
}
