package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avocarbon/kbchat/internal/models"
)

// updateChatSelection handles updates while the chat selector overlay is open
func (m Model) updateChatSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.closeChatSelector()

		case "up":
			if n := len(m.filteredChats()); n > 0 {
				m.chatCursor--
				if m.chatCursor < 0 {
					m.chatCursor = n - 1
				}
			}

		case "down":
			if n := len(m.filteredChats()); n > 0 {
				m.chatCursor++
				if m.chatCursor >= n {
					m.chatCursor = 0
				}
			}

		case "enter":
			filtered := m.filteredChats()
			if len(filtered) > 0 && m.chatCursor < len(filtered) {
				m.ctrl.Store().SelectChat(filtered[m.chatCursor].ID)
				m.closeChatSelector()
				m.updateViewport()
				m.viewport.GotoBottom()
			}

		case "ctrl+n":
			m.ctrl.Store().CreateChat("")
			m.closeChatSelector()
			m.updateViewport()

		case "ctrl+p":
			filtered := m.filteredChats()
			if len(filtered) > 0 && m.chatCursor < len(filtered) {
				m.ctrl.Store().TogglePin(filtered[m.chatCursor].ID)
				m.chatList = m.ctrl.Store().List()
			}

		case "ctrl+x":
			filtered := m.filteredChats()
			if len(filtered) > 0 && m.chatCursor < len(filtered) {
				m.ctrl.Store().DeleteChat(filtered[m.chatCursor].ID)
				m.chatList = m.ctrl.Store().List()
				if m.chatCursor >= len(m.filteredChats()) && m.chatCursor > 0 {
					m.chatCursor--
				}
				m.updateViewport()
			}

		case "backspace":
			if len(m.chatFilter) > 0 {
				m.chatFilter = m.chatFilter[:len(m.chatFilter)-1]
				m.chatCursor = 0
			}

		default:
			if len(msg.String()) == 1 {
				r := []rune(msg.String())[0]
				if r >= ' ' && r <= '~' {
					m.chatFilter += msg.String()
					m.chatCursor = 0
				}
			}
		}
	}

	return m, nil
}

func (m *Model) closeChatSelector() {
	m.selectingChat = false
	m.chatList = nil
	m.chatCursor = 0
	m.chatFilter = ""
}

// filteredChats returns the chat list filtered by title substring
func (m Model) filteredChats() []*models.Chat {
	if m.chatFilter == "" {
		return m.chatList
	}

	filter := strings.ToLower(m.chatFilter)
	var filtered []*models.Chat
	for _, chat := range m.chatList {
		if strings.Contains(strings.ToLower(chat.Title), filter) {
			filtered = append(filtered, chat)
		}
	}
	return filtered
}

// renderChatSelector renders the chat selection overlay
func (m Model) renderChatSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder

	content.WriteString(selectorTitleStyle.Render("Select a Chat"))
	content.WriteString("\n\n")

	if m.chatFilter != "" {
		content.WriteString(inputLabelStyle.Render("🔍 ") + m.chatFilter + "_")
		content.WriteString("\n\n")
	}

	if len(m.chatList) == 0 {
		content.WriteString(hintStyle.Render("  No chats yet"))
		content.WriteString("\n")
	} else {
		filtered := m.filteredChats()
		if len(filtered) == 0 {
			content.WriteString(hintStyle.Render("  No chats match filter"))
			content.WriteString("\n")
		} else {
			maxItems := 10
			startIdx := 0
			if m.chatCursor >= maxItems {
				startIdx = m.chatCursor - maxItems + 1
			}
			endIdx := startIdx + maxItems
			if endIdx > len(filtered) {
				endIdx = len(filtered)
			}

			if startIdx > 0 {
				content.WriteString(hintStyle.Render("  ↑ more above"))
				content.WriteString("\n")
			}

			currentID := m.ctrl.Store().CurrentID()
			for i := startIdx; i < endIdx; i++ {
				content.WriteString(m.renderChatItem(filtered[i], i == m.chatCursor, filtered[i].ID == currentID))
				content.WriteString("\n")
			}

			if endIdx < len(filtered) {
				content.WriteString(hintStyle.Render("  ↓ more below"))
				content.WriteString("\n")
			}
		}
	}

	content.WriteString("\n")

	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Open"),
		statusKeyStyle.Render("Ctrl+N") + statusDescStyle.Render(" New"),
		statusKeyStyle.Render("Ctrl+P") + statusDescStyle.Render(" Pin"),
		statusKeyStyle.Render("Ctrl+X") + statusDescStyle.Render(" Delete"),
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

// renderChatItem renders one line of the chat selector list
func (m Model) renderChatItem(chat *models.Chat, selected, current bool) string {
	cursor := "  "
	style := selectorItemStyle
	if selected {
		cursor = selectorCursorStyle.Render("▸ ")
		style = selectorSelectedStyle
	}

	pin := "  "
	if chat.IsPinned {
		pin = selectorPinStyle.Render("★ ")
	}

	title := style.Render(chat.Title)
	marker := ""
	if current {
		marker = selectorValueStyle.Render(" (current)")
	}

	meta := selectorValueStyle.Render(fmt.Sprintf(" - %d message(s), %s", len(chat.Messages), relativeTime(chat.CreatedAt)))

	return fmt.Sprintf("%s%s%s%s%s", cursor, pin, title, marker, meta)
}

// relativeTime formats an age like "5m ago" for list display
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
