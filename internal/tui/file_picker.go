package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avocarbon/kbchat/internal/api"
	"github.com/avocarbon/kbchat/internal/assets"
)

// updateFilePicker handles updates while the attachment picker overlay is open
func (m Model) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case downloadDoneMsg:
		m.loading = false
		m.selectingFile = false
		m.pickerEntries = nil
		m.pickerCursor = 0
		if msg.err != nil {
			m.banner.Notify(msg.err.Error())
		} else {
			m.status = "Saved to " + msg.path
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc", "q":
			m.selectingFile = false
			m.pickerEntries = nil
			m.pickerCursor = 0

		case "up", "k":
			if len(m.pickerEntries) > 0 {
				m.pickerCursor--
				if m.pickerCursor < 0 {
					m.pickerCursor = len(m.pickerEntries) - 1
				}
			}

		case "down", "j":
			if len(m.pickerEntries) > 0 {
				m.pickerCursor++
				if m.pickerCursor >= len(m.pickerEntries) {
					m.pickerCursor = 0
				}
			}

		case "enter":
			if len(m.pickerEntries) > 0 && m.pickerCursor < len(m.pickerEntries) {
				entry := m.pickerEntries[m.pickerCursor]
				m.loading = true
				return m, tea.Batch(m.downloadEntry(entry), m.spinner.Tick)
			}
		}
	}

	return m, nil
}

// downloadEntry returns a command that saves one attachment to disk
func (m Model) downloadEntry(entry pickerEntry) tea.Cmd {
	return func() tea.Msg {
		if m.downloader == nil {
			return downloadDoneMsg{err: fmt.Errorf("downloads are not available")}
		}
		path, err := m.downloader.DownloadAttachment(context.Background(), entry.att, api.DownloadOptions{
			Directory: m.downloadDir,
		})
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

// renderFilePicker renders the attachment picker overlay
func (m Model) renderFilePicker() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	content.WriteString(selectorTitleStyle.Render("Attachments"))
	content.WriteString("\n\n")

	if m.loading {
		content.WriteString(m.spinner.View() + loadingStyle.Render(" Downloading..."))
		content.WriteString("\n")
	} else if len(m.pickerEntries) == 0 {
		content.WriteString(hintStyle.Render("  No attachments in this chat"))
		content.WriteString("\n")
	} else {
		maxItems := 10
		startIdx := 0
		if m.pickerCursor >= maxItems {
			startIdx = m.pickerCursor - maxItems + 1
		}
		endIdx := startIdx + maxItems
		if endIdx > len(m.pickerEntries) {
			endIdx = len(m.pickerEntries)
		}

		if startIdx > 0 {
			content.WriteString(hintStyle.Render("  ↑ more above"))
			content.WriteString("\n")
		}

		for i := startIdx; i < endIdx; i++ {
			content.WriteString(m.renderPickerItem(m.pickerEntries[i], i == m.pickerCursor))
			content.WriteString("\n")
		}

		if endIdx < len(m.pickerEntries) {
			content.WriteString(hintStyle.Render("  ↓ more below"))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Download"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(content.String())
}

// renderPickerItem renders one line of the attachment picker
func (m Model) renderPickerItem(entry pickerEntry, selected bool) string {
	cursor := "  "
	style := selectorItemStyle
	if selected {
		cursor = selectorCursorStyle.Render("▸ ")
		style = selectorSelectedStyle
	}

	icon := "📄"
	if entry.kind == assets.KindImage {
		icon = "🖼"
	}

	name := style.Render(displayName(entry.att))

	origin := ""
	if entry.att.ParentNodeTitle != "" {
		origin = selectorValueStyle.Render(" - " + entry.att.ParentNodeTitle)
	}

	return fmt.Sprintf("%s%s %s%s", cursor, icon, name, origin)
}
