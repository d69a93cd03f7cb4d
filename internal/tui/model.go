package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avocarbon/kbchat/internal/api"
	"github.com/avocarbon/kbchat/internal/assets"
	"github.com/avocarbon/kbchat/internal/conversation"
	"github.com/avocarbon/kbchat/internal/models"
	"github.com/avocarbon/kbchat/internal/render"
	"github.com/avocarbon/kbchat/internal/session"
)

// Message types for the TUI
type (
	historyLoadedMsg struct{}
	turnDoneMsg      struct {
		message *models.Message
		err     error
	}
	downloadDoneMsg struct {
		path string
		err  error
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

// ConversationInterface defines the controller operations needed by the TUI
type ConversationInterface interface {
	Submit(ctx context.Context, content string, files []models.LocalFile) (*models.Message, error)
	LoadInitial(ctx context.Context)
	InFlight() bool
	Store() *session.Store
}

// DownloaderInterface defines the client operations the attachment picker
// needs
type DownloaderInterface interface {
	DownloadAttachment(ctx context.Context, att models.Attachment, opts api.DownloadOptions) (string, error)
	BaseURL() string
}

// Banner holds the dismissible error notification shown above the input. It
// doubles as the controller's Notifier, so failures raised inside a command
// goroutine surface on the next frame.
type Banner struct {
	mu   sync.Mutex
	text string
}

// Notify implements conversation.Notifier
func (b *Banner) Notify(message string) {
	b.mu.Lock()
	b.text = message
	b.mu.Unlock()
}

// Text returns the current banner text, or "" when dismissed
func (b *Banner) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Dismiss clears the banner
func (b *Banner) Dismiss() {
	b.mu.Lock()
	b.text = ""
	b.mu.Unlock()
}

var _ conversation.Notifier = (*Banner)(nil)

// Model represents the TUI state
type Model struct {
	ctrl       ConversationInterface
	downloader DownloaderInterface
	banner     *Banner

	downloadDir string
	baseTitle   string

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading     bool
	ready       bool
	initialized bool
	status      string

	// Pending attachments for the next turn
	pending *conversation.FileList

	// Chat selector state
	selectingChat bool
	chatList      []*models.Chat
	chatCursor    int
	chatFilter    string

	// Attachment picker state
	selectingFile bool
	pickerEntries []pickerEntry
	pickerCursor  int

	// Dimensions
	width  int
	height int
}

// pickerEntry is one downloadable attachment in the picker
type pickerEntry struct {
	att  models.Attachment
	kind assets.Kind
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctrl ConversationInterface, downloader DownloaderInterface, banner *Banner, downloadDir string) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask the knowledge base..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if banner == nil {
		banner = &Banner{}
	}

	return Model{
		ctrl:        ctrl,
		downloader:  downloader,
		banner:      banner,
		downloadDir: downloadDir,
		baseTitle:   "Knowledge Base Chat",
		textarea:    ta,
		spinner:     s,
		pending:     conversation.NewFileList(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.loadHistory(),
	)
}

// loadHistory returns a command that seeds the store from server history
func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.LoadInitial(context.Background())
		return historyLoadedMsg{}
	}
}

// submitTurn returns a command that runs one chat turn
func (m Model) submitTurn(content string, files []models.LocalFile) tea.Cmd {
	return func() tea.Msg {
		message, err := m.ctrl.Submit(context.Background(), content, files)
		return turnDoneMsg{message: message, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selectingChat {
		return m.updateChatSelection(msg)
	}
	if m.selectingFile {
		return m.updateFilePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.banner.Text() != "" {
				m.banner.Dismiss()
			} else if m.loading {
				m.loading = false
			} else {
				return m, tea.Quit
			}

		case "enter":
			if !m.loading && (strings.TrimSpace(m.textarea.Value()) != "" || m.pending.Len() > 0) {
				input := strings.TrimSpace(m.textarea.Value())

				if model, command, handled := m.handleCommand(input); handled {
					return model, command
				}

				m.loading = true
				m.status = ""
				m.textarea.Reset()

				cmd = m.submitTurn(input, m.pending.Take())
				m.updateViewport()
				m.viewport.GotoBottom()

				return m, tea.Batch(cmd, m.spinner.Tick)
			}
		}

	case historyLoadedMsg:
		m.initialized = true
		m.updateViewport()
		m.viewport.GotoBottom()

	case turnDoneMsg:
		m.loading = false
		m.updateViewport()
		m.viewport.GotoBottom()

	case downloadDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.banner.Notify(msg.err.Error())
		} else {
			m.status = "Saved to " + msg.path
		}

	case exportDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.banner.Notify(msg.err.Error())
		} else {
			m.status = "Exported to " + msg.path
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleCommand intercepts slash commands typed into the input. The returned
// bool reports whether the input was consumed.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd, bool) {
	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit, true

	case input == "/chats":
		m.textarea.Reset()
		m.selectingChat = true
		m.chatList = m.ctrl.Store().List()
		m.chatCursor = 0
		m.chatFilter = ""
		return m, nil, true

	case input == "/new":
		m.textarea.Reset()
		m.ctrl.Store().CreateChat("")
		m.status = ""
		m.updateViewport()
		return m, nil, true

	case input == "/files":
		m.textarea.Reset()
		m.pickerEntries = m.collectAttachments()
		m.pickerCursor = 0
		m.selectingFile = true
		return m, nil, true

	case input == "/export" || strings.HasPrefix(input, "/export "):
		m.textarea.Reset()
		format := strings.TrimSpace(strings.TrimPrefix(input, "/export"))
		m.loading = true
		return m, tea.Batch(m.exportChat(format), m.spinner.Tick), true

	case strings.HasPrefix(input, "/attach "):
		m.textarea.Reset()
		path := strings.TrimSpace(strings.TrimPrefix(input, "/attach "))
		if err := m.attachFile(path); err != nil {
			m.banner.Notify(err.Error())
		}
		return m, nil, true

	case input == "/detach":
		m.textarea.Reset()
		m.pending.Clear()
		return m, nil, true
	}

	return m, nil, false
}

// attachFile stages a local file for the next turn
func (m *Model) attachFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot attach a directory: %s", path)
	}

	m.pending.Add(models.LocalFile{
		ID:   session.NewMessageID(),
		Name: filepath.Base(path),
		Size: info.Size(),
		Type: mime.TypeByExtension(filepath.Ext(path)),
		URL:  path,
	}, nil)
	return nil
}

// collectAttachments gathers downloadable attachments from the current chat,
// newest message first
func (m Model) collectAttachments() []pickerEntry {
	chat := m.ctrl.Store().Current()
	if chat == nil {
		return nil
	}

	var entries []pickerEntry
	for i := len(chat.Messages) - 1; i >= 0; i-- {
		images, files := assets.Resolve(chat.Messages[i].ContextItems)
		for _, att := range images {
			entries = append(entries, pickerEntry{att: att, kind: assets.KindImage})
		}
		for _, att := range files {
			entries = append(entries, pickerEntry{att: att, kind: assets.KindFile})
		}
	}
	return entries
}

// exportChat returns a command that writes the current chat transcript
func (m Model) exportChat(formatName string) tea.Cmd {
	return func() tea.Msg {
		chat := m.ctrl.Store().Current()
		if chat == nil {
			return exportDoneMsg{err: fmt.Errorf("no active chat to export")}
		}

		if formatName == "" {
			formatName = "markdown"
		}
		format, err := session.ParseExportFormat(formatName)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		data, err := session.Export(chat, format)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		if err := os.MkdirAll(m.downloadDir, 0o755); err != nil {
			return exportDoneMsg{err: err}
		}

		name := fmt.Sprintf("chat_%s.%s", time.Now().Format("20060102_150405"), format)
		path := filepath.Join(m.downloadDir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selectingChat {
		return m.renderChatSelector()
	}
	if m.selectingFile {
		return m.renderFilePicker()
	}

	var sections []string
	contentWidth := m.width - 4

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	chat := m.ctrl.Store().Current()
	if chat == nil || len(chat.Messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	if text := m.banner.Text(); text != "" {
		banner := bannerStyle.Width(contentWidth).Render("✗ " + text + hintStyle.Render("  (esc to dismiss)"))
		sections = append(sections, banner)
	}

	var inputContent string
	if m.loading {
		inputContent = lipgloss.JoinHorizontal(
			lipgloss.Center,
			m.spinner.View(),
			loadingStyle.Render(" Thinking..."),
		)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderInputLabel(),
			m.textarea.View(),
		)
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the top panel with the chat title
func (m Model) renderHeader(width int) string {
	title := m.baseTitle
	if chat := m.ctrl.Store().Current(); chat != nil {
		title = chat.Title
	}

	headerParts := []string{
		titleStyle.Render("❖ " + m.baseTitle),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(title),
	}
	if !m.initialized {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			hintStyle.Render("loading history..."),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	return headerStyle.Width(width).Render(headerContent)
}

// renderInputLabel renders the "You" label, with pending attachment count
func (m Model) renderInputLabel() string {
	label := inputLabelStyle.Render("You")
	if n := m.pending.Len(); n > 0 {
		label += hintStyle.Render(fmt.Sprintf("  📎 %d file(s) attached", n))
	}
	return label
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("❖")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Knowledge Base Chat")
	subtitle := welcomeStyle.Width(width).Render("Ask a question to search the knowledge base")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.status != "" {
		return statusBarStyle.Width(width).Render(statusDescStyle.Render(m.status))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/chats", "Chats"},
		{"/files", "Attachments"},
		{"/export", "Export"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content from the current chat
func (m *Model) updateViewport() {
	chat := m.ctrl.Store().Current()
	if chat == nil {
		m.viewport.SetContent("")
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range chat.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Role == models.RoleUser:
			label := userLabelStyle.Render("⬤ You")
			body := msg.Content
			for _, f := range msg.AttachedFiles {
				body += "\n" + attachmentStyle.Render("📎 "+f.Name)
			}
			bubble := userBubbleStyle.Width(bubbleWidth).Render(body)
			content.WriteString(label + "\n" + bubble)

		case msg.IsError():
			label := errorStyle.Render("❖ Assistant")
			bubble := errorBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)

		default:
			label := assistantLabelStyle.Render("❖ Assistant")

			rendered, err := render.MarkdownWithWidth(msg.Content, bubbleWidth-4)
			if err != nil {
				rendered = msg.Content
			}
			rendered = strings.TrimRight(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)

			if extras := m.renderMessageAssets(msg); extras != "" {
				content.WriteString("\n" + extras)
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderMessageAssets renders the sources line and resolved attachments below
// an assistant message
func (m Model) renderMessageAssets(msg models.Message) string {
	if len(msg.ContextItems) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, sourcesStyle.Render(fmt.Sprintf("%d source(s) from the knowledge base", len(msg.ContextItems))))

	images, files := assets.Resolve(msg.ContextItems)
	base := ""
	if m.downloader != nil {
		base = m.downloader.BaseURL()
	}

	for _, att := range images {
		url := assets.ImageURL(base, att.FilePath, att.FileName)
		line := "🖼 " + displayName(att)
		if url != "" {
			line += "  " + linkStyle.Render(url)
		}
		lines = append(lines, attachmentStyle.Render(line))
	}
	for _, att := range files {
		url := assets.DownloadURL(base, att.FilePath, att.FileName)
		line := "📄 " + displayName(att)
		if url != "#" {
			line += "  " + linkStyle.Render(url)
		}
		lines = append(lines, attachmentStyle.Render(line))
	}

	return strings.Join(lines, "\n")
}

// displayName picks a human-readable name for an attachment
func displayName(att models.Attachment) string {
	if att.FileName != "" {
		return att.FileName
	}
	if att.FilePath != "" {
		norm := assets.NormalizePath(att.FilePath)
		if idx := strings.LastIndex(norm, "/"); idx >= 0 {
			return norm[idx+1:]
		}
		return norm
	}
	return "attachment"
}

// Run starts the chat TUI
func Run(ctrl ConversationInterface, downloader DownloaderInterface, banner *Banner, downloadDir string) error {
	m := NewChatModel(ctrl, downloader, banner, downloadDir)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
