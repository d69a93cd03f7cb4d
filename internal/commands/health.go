package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showServerConfig bool

// healthCmd probes the backend's health endpoint
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		status, err := client.Health(context.Background())
		if err != nil {
			fmt.Println(formatErrorMessage(err, "Health check failed"))
			return fmt.Errorf("health check failed: %w", err)
		}

		okStyle := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
		badStyle := lipgloss.NewStyle().Foreground(colorFailure).Bold(true)
		dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

		if status.Healthy() {
			fmt.Println(okStyle.Render("✓ Backend is healthy") + dimStyle.Render("  "+client.BaseURL()))
		} else {
			fmt.Println(badStyle.Render("✗ Backend reported: "+status.Status) + dimStyle.Render("  "+client.BaseURL()))
		}

		if status.Version != "" {
			fmt.Println(dimStyle.Render("  Version: " + status.Version))
		}
		fmt.Println(dimStyle.Render(fmt.Sprintf("  Database connected: %t", status.DatabaseConnected)))
		fmt.Println(dimStyle.Render(fmt.Sprintf("  LLM configured: %t", status.LLMConfigured)))

		if showServerConfig {
			raw, err := client.ServerConfig(context.Background())
			if err != nil {
				fmt.Println(formatErrorMessage(err, "Config fetch failed"))
				return fmt.Errorf("config fetch failed: %w", err)
			}
			fmt.Println()
			fmt.Println(raw)
		}

		if !status.Healthy() {
			return fmt.Errorf("backend is not healthy: %s", status.Status)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().BoolVar(&showServerConfig, "config", false, "Also print the server configuration")
}
