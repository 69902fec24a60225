package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/roll-engine/internal/handlers"
	"github.com/jwebster45206/roll-engine/pkg/rollreq"
	"github.com/jwebster45206/roll-engine/pkg/session"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "Paste narrator text here, or type a /command..."
)

type entryRole int

const (
	roleNarrator entryRole = iota
	rolePlayer
	roleRoll
	roleInfo
	roleError
)

type transcriptEntry struct {
	role entryRole
	text string
}

// ConsoleUI is the BubbleTea model that runs the play-test client.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *session.Session
	playerID     string
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	transcript []transcriptEntry
	pending    []rollreq.Request
	analysis   *handlers.NarratorResponse
	statusLine string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type narratorResponseMsg struct {
	response *handlers.NarratorResponse
	err      error
}

type rollResponseMsg struct {
	index    int
	response *handlers.RollResponse
	err      error
}

type sessionMsg struct {
	session *session.Session
	err     error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, sess *session.Session, playerID string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 4000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		session:      sess,
		playerID:     playerID,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		ready:        false,
	}
}

// writeChatContent rebuilds the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("ROLL ENGINE") + "\n\n")
	content.WriteString("Paste narrator output below and press Enter to analyze it.\n")
	content.WriteString("Use /roll to execute the next pending roll, /help for more.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, entry := range m.transcript {
		switch entry.role {
		case roleNarrator:
			prefix := narratorStyle.Render(AgentName + ": ")
			content.WriteString(prefix + wordwrap.String(entry.text, chatWidth-len(AgentName)-2) + "\n\n")
		case rolePlayer:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.text, chatWidth-6) + "\n\n")
		case roleRoll:
			content.WriteString(rollStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		case roleInfo:
			content.WriteString(promptStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		case roleError:
			content.WriteString(errorStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.session.ID.String()[:8] + "...\n\n")

	if m.session.Name != "" {
		content.WriteString("Name:\n")
		content.WriteString(m.session.Name + "\n\n")
	}

	content.WriteString("Character:\n")
	if p, ok := m.session.Participant(m.playerID); ok {
		content.WriteString(fmt.Sprintf("%s (HP %d/%d, AC %d)\n\n", p.Name, p.HP, p.MaxHP, p.AC))
	} else {
		content.WriteString(m.playerID + "\n\n")
	}

	content.WriteString("Pending Rolls:\n")
	if len(m.pending) == 0 {
		content.WriteString("None\n")
	}
	for i, req := range m.pending {
		line := fmt.Sprintf("%d. [%s] %s", i+1, req.Kind, req.Purpose)
		if req.DC > 0 {
			line += fmt.Sprintf(" DC %d", req.DC)
		}
		if req.AC > 0 {
			line += fmt.Sprintf(" AC %d", req.AC)
		}
		content.WriteString(line + "\n")
	}
	content.WriteString("\n")

	if m.analysis != nil {
		content.WriteString("Protocol:\n")
		report := m.analysis.Validation
		if report.IsValid && len(report.Warnings) == 0 {
			content.WriteString("OK\n")
		}
		for _, issue := range report.Issues {
			content.WriteString(errorStyle.Render(fmt.Sprintf("• %s: %s", issue.Severity, issue.Kind)) + "\n")
		}
		for _, issue := range report.Warnings {
			content.WriteString(warnStyle.Render(fmt.Sprintf("• %s: %s", issue.Severity, issue.Kind)) + "\n")
		}
		content.WriteString("\n")
	}

	if n := len(m.session.RollLog); n > 0 {
		content.WriteString("Recent Rolls:\n")
		start := n - 3
		if start < 0 {
			start = 0
		}
		for _, r := range m.session.RollLog[start:] {
			label := r.Purpose
			if label == "" {
				label = r.Formula
			}
			content.WriteString(fmt.Sprintf("• %s: %d\n", label, r.Total))
		}
		content.WriteString("\n")
	}

	if m.statusLine != "" {
		content.WriteString(warnStyle.Render(m.statusLine) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Analyze\n")
	content.WriteString("• /roll [n]: Roll\n")
	content.WriteString("• /copy: Copy session ID\n")
	content.WriteString("• Ctrl+Y: Copy last roll\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLastRoll()
			m.writeMetadata()
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.statusLine = ""
			m.transcript = append(m.transcript, transcriptEntry{rolePlayer, input})
			m.writeChatContent()

			return m, tea.Batch(m.analyzeNarratorText(input), progressTick())
		}

	case narratorResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.transcript = append(m.transcript, transcriptEntry{roleError, "Error: " + msg.err.Error()})
		} else {
			m.analysis = msg.response
			m.pending = msg.response.Requests
			m.transcript = append(m.transcript, transcriptEntry{roleNarrator, msg.response.Text})
			if len(msg.response.Requests) > 0 {
				m.transcript = append(m.transcript, transcriptEntry{roleInfo, pendingSummary(msg.response.Requests)})
			}
			if msg.response.Suggestion != "" {
				m.transcript = append(m.transcript, transcriptEntry{roleError,
					"Protocol violation. Suggested rewrite: " + msg.response.Suggestion})
			}
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, nil

	case rollResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.transcript = append(m.transcript, transcriptEntry{roleError, "Error: " + msg.err.Error()})
		} else {
			m.transcript = append(m.transcript, transcriptEntry{roleRoll, formatRollResult(msg.response)})
			if msg.index >= 0 && msg.index < len(m.pending) {
				m.pending = append(m.pending[:msg.index], m.pending[msg.index+1:]...)
			}
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, m.refreshSession()

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.writeMetadata()
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	m.textarea.Reset()

	switch fields[0] {
	case "/help":
		helpText := `
Commands:
• /roll [n] - Execute pending roll n (default: the first)
• /copy - Copy the session ID to the clipboard
• /help - Show this help
• Ctrl+Y - Copy the last roll to the clipboard
• Ctrl+C - Quit

How to play-test:
• Paste a narrator message and press Enter
• Extracted roll requests and protocol findings appear on the right
• Execute pending rolls with /roll and paste the follow-up back
`
		m.transcript = append(m.transcript, transcriptEntry{roleInfo, strings.TrimSpace(helpText)})
		m.writeChatContent()

	case "/copy":
		if err := clipboard.WriteAll(m.session.ID.String()); err != nil {
			m.statusLine = "Clipboard unavailable"
		} else {
			m.statusLine = "Session ID copied"
		}
		m.writeMetadata()

	case "/roll":
		if len(m.pending) == 0 {
			m.transcript = append(m.transcript, transcriptEntry{roleError, "No pending roll requests."})
			m.writeChatContent()
			return m, nil
		}
		index := 0
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > len(m.pending) {
				m.transcript = append(m.transcript, transcriptEntry{roleError,
					fmt.Sprintf("Pick a pending roll between 1 and %d.", len(m.pending))})
				m.writeChatContent()
				return m, nil
			}
			index = n - 1
		}
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.executePendingRoll(index), progressTick())

	default:
		m.transcript = append(m.transcript, transcriptEntry{roleError, "Unknown command. Try /help."})
		m.writeChatContent()
	}

	return m, nil
}

func (m *ConsoleUI) copyLastRoll() {
	for i := len(m.transcript) - 1; i >= 0; i-- {
		if m.transcript[i].role == roleRoll {
			if err := clipboard.WriteAll(m.transcript[i].text); err != nil {
				m.statusLine = "Clipboard unavailable"
			} else {
				m.statusLine = "Last roll copied"
			}
			return
		}
	}
	m.statusLine = "No rolls yet"
}

// pendingSummary renders the extracted requests as a transcript note.
func pendingSummary(requests []rollreq.Request) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d roll request(s) extracted:", len(requests)))
	for i, req := range requests {
		b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, req.Purpose))
		if req.Formula != "" {
			b.WriteString(" (" + req.Formula + ")")
		}
		if req.DC > 0 {
			b.WriteString(fmt.Sprintf(" DC %d", req.DC))
		}
		if req.AC > 0 {
			b.WriteString(fmt.Sprintf(" AC %d", req.AC))
		}
	}
	return b.String()
}

// formatRollResult renders an executed roll as one transcript line.
func formatRollResult(resp *handlers.RollResponse) string {
	r := resp.Result
	faces := make([]string, 0, len(r.Dice))
	for _, d := range r.Dice {
		faces = append(faces, strconv.Itoa(d.Value))
	}

	line := fmt.Sprintf("%s rolls %s = %d [%s]", r.Actor, r.Formula, r.Total, strings.Join(faces, ", "))
	if r.Advantage {
		line += " (advantage)"
	}
	if r.Disadvantage {
		line += " (disadvantage)"
	}
	if r.Critical {
		line += " NATURAL 20!"
	}
	if r.CriticalMiss {
		line += " natural 1"
	}
	for _, note := range resp.Modifiers.Notes {
		line += "\n  " + note
	}
	if resp.Followup != "" {
		line += "\n  " + resp.Followup
	}
	return line
}

func (m ConsoleUI) analyzeNarratorText(text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendNarratorText(m.client, m.config.APIBaseURL, m.session.ID, text)
		return narratorResponseMsg{resp, err}
	}
}

func (m ConsoleUI) executePendingRoll(index int) tea.Cmd {
	req := m.pending[index]
	return func() tea.Msg {
		resp, err := executeRoll(m.client, m.config.APIBaseURL, m.session.ID, handlers.RollRequestBody{
			ParticipantID: m.playerID,
			Kind:          req.Kind,
			Formula:       req.Formula,
			Purpose:       req.Purpose,
			DC:            req.DC,
			AC:            req.AC,
			Advantage:     req.Advantage,
			Disadvantage:  req.Disadvantage,
		})
		return rollResponseMsg{index, resp, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := getSession(m.client, m.config.APIBaseURL, m.session.ID)
		return sessionMsg{sess, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit the play-test session?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
