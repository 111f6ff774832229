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

	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

const (
	AgentName       = "Thiên Đạo"
	PlaceHolderText = "Nhập hành động, hoặc số của lựa chọn..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *state.GameState
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	// note is transient output not kept in the story log: shortcut answers, command
	// output and errors. Cleared by the next turn.
	note string
	// pendingStory is the story of the last turn response, shown as a note when the
	// refreshed log does not contain it.
	pendingStory string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResponseMsg struct {
	response *chat.TurnResponse
	err      error
}

type actionResultMsg struct {
	response *handlers.ActionResponse
	err      error
}

type gameStateMsg struct {
	gameState *state.GameState
	err       error
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

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

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *state.GameState) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		gameState:    gs,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

func writeMetadata(gs *state.GameState) string {
	var content strings.Builder
	c := gs.Character
	totals := gs.Totals()

	content.WriteString(titleStyle.Render(strings.ToUpper(c.Name)) + "\n\n")
	fmt.Fprintf(&content, "Cảnh giới:\n%s (cấp %d)\n", c.Realm, c.Stats.Level)
	fmt.Fprintf(&content, "Tu vi: %d/%d\n\n", c.Stats.Exp, c.Stats.NextLevelExp)

	for _, p := range stats.Pools {
		cur, _ := c.Stats.Get(p.CurrentKey())
		maxV, _ := totals.Get(p.MaxKey())
		fmt.Fprintf(&content, "%s: %d/%d\n", stats.Label(p.CurrentKey()), cur, maxV)
	}
	content.WriteString("\n")

	fmt.Fprintf(&content, "%s: %d  %s: %d\n", stats.Label(stats.Attack), totals.Attack, stats.Label(stats.Defense), totals.Defense)
	fmt.Fprintf(&content, "%s: %d  %s: %d\n\n", stats.Label(stats.Speed), totals.Speed, stats.Label(stats.Constitution), totals.Constitution)

	if gs.Location != "" {
		fmt.Fprintf(&content, "Vị trí:\n%s\n\n", gs.Location)
	}
	fmt.Fprintf(&content, "Lượt: %d\n\n", gs.Turn)

	if len(c.Currencies) > 0 {
		content.WriteString("Tiền tệ:\n")
		for _, b := range c.Currencies {
			fmt.Fprintf(&content, "• %s: %d\n", b.Name, b.Amount)
		}
		content.WriteString("\n")
	}

	if len(c.ActiveEffects) > 0 {
		content.WriteString("Hiệu ứng:\n")
		for _, e := range c.ActiveEffects {
			if e.Duration < 0 {
				fmt.Fprintf(&content, "• %s\n", e.Name)
			} else {
				fmt.Fprintf(&content, "• %s (%d lượt)\n", e.Name, e.Duration)
			}
		}
		content.WriteString("\n")
	}

	var quests []string
	for _, q := range gs.Quests {
		if q.Status == state.QuestAccepted {
			quests = append(quests, q.Title)
		}
	}
	if len(quests) > 0 {
		content.WriteString("Nhiệm vụ:\n")
		for _, q := range quests {
			fmt.Fprintf(&content, "• %s\n", q)
		}
		content.WriteString("\n")
	}

	content.WriteString("Trang bị:\n")
	for _, s := range gs.Equipment {
		if s.Item != nil {
			fmt.Fprintf(&content, "• %s: %s\n", s.Slot, s.Item.Name)
		}
	}
	content.WriteString("\n")

	content.WriteString("Túi đồ:\n")
	if len(gs.Inventory) == 0 {
		content.WriteString("Trống\n")
	}
	for _, it := range gs.Inventory {
		fmt.Fprintf(&content, "• [%d] %s x%d\n", it.ID, it.Name, it.Quantity)
	}

	content.WriteString("\n")
	content.WriteString("Lệnh:\n")
	content.WriteString("• Ctrl+C: Thoát\n")
	content.WriteString("• Enter: Gửi\n")
	content.WriteString("• /help: Trợ giúp\n")

	return content.String()
}

// writeChatContent builds the chat content from game state for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("REALM ENGINE") + "\n\n")
	content.WriteString("Nhập hành động bên dưới để tiếp tục con đường tu tiên.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	if m.gameState != nil {
		for _, entry := range m.gameState.StoryLog {
			switch entry.Type {
			case state.EntryAI:
				content.WriteString(formatNarratorResponse(entry.Text, chatWidth) + "\n\n")
			case state.EntryPlayer, state.EntryCustomAction:
				content.WriteString(userStyle.Render("Ngươi: ") + wordwrap.String(entry.Text, chatWidth-6) + "\n\n")
			case state.EntrySystem:
				content.WriteString(systemStyle.Render(wordwrap.String(entry.Text, chatWidth)) + "\n")
			}
		}

		if !m.loading && len(m.gameState.CurrentChoices) > 0 {
			content.WriteString("\n")
			for i, choice := range m.gameState.CurrentChoices {
				content.WriteString(choiceStyle.Render(wordwrap.String(fmt.Sprintf("%d. %s", i+1, choice), chatWidth)) + "\n")
			}
			content.WriteString("\n")
		}
	}

	if m.note != "" {
		content.WriteString(wordwrap.String(m.note, chatWidth) + "\n\n")
	}

	// If currently loading, add the progress bar
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.gameState != nil && len(m.gameState.StoryLog) == 0 {
		return tea.Batch(textarea.Blink, m.openGame(), progressTick())
	}
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
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		if m.gameState != nil && len(m.gameState.StoryLog) == 0 {
			m.loading = true
		}
		m.writeChatContent()
		if m.gameState != nil {
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
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

			// A bare number picks one of the offered choices
			if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.gameState.CurrentChoices) {
				input = m.gameState.CurrentChoices[n-1]
			}

			m.textarea.Reset()
			m.loading = true
			m.note = ""
			m.progressTick = 0 // Reset progress animation

			m.gameState.StoryLog = append(m.gameState.StoryLog, state.StoryEntry{Type: state.EntryPlayer, Text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendTurn(input), progressTick())
		}

	case turnResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.note = errorStyle.Render("Lỗi: " + msg.err.Error())
		} else {
			m.pendingStory = msg.response.Story
		}
		m.writeChatContent()
		return m, m.refreshGameState()

	case actionResultMsg:
		if msg.err != nil {
			m.note = errorStyle.Render("Lỗi: " + msg.err.Error())
		} else {
			m.gameState = msg.response.GameState
			m.note = systemStyle.Render("Đã thực hiện.")
			if msg.response.Action != "" {
				m.note = systemStyle.Render("Đã thực hiện: " + msg.response.Action)
			}
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.writeChatContent()

	case gameStateMsg:
		if msg.err == nil && msg.gameState != nil {
			m.gameState = msg.gameState
			if story := m.pendingStory; story != "" {
				n := len(m.gameState.StoryLog)
				if n == 0 || m.gameState.StoryLog[n-1].Text != story {
					m.note = story
				}
				m.pendingStory = ""
			}
			m.metaViewport.SetContent(writeMetadata(m.gameState))
			m.writeChatContent()
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

func formatNarratorResponse(response string, width int) string {
	wrapWidth := width - len([]rune(AgentName+": "))
	wrapped := wordwrap.String(response, wrapWidth)
	lines := strings.Split(wrapped, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		// Dialogue lines look like "Speaker: text"
		if idx := strings.Index(trimmed, ":"); idx > 0 && idx <= 30 {
			speaker := trimmed[:idx]
			if len(strings.Fields(speaker)) <= 3 {
				lines[i] = speakerStyle.Render(speaker+":") + trimmed[idx+1:]
			}
		}
	}

	return narratorStyle.Render(AgentName+": ") + strings.Join(lines, "\n")
}

const helpText = `
Lệnh:
• /help - Hiển thị trợ giúp
• /copy - Sao chép đoạn dẫn truyện cuối cùng
• /use <id> [số lượng] - Dùng vật phẩm
• /drop <id> [số lượng] - Vứt bỏ vật phẩm
• /equip <id> - Trang bị
• /unequip <vị trí> - Tháo trang bị
• Ctrl+C - Thoát

Cách chơi:
• Nhập hành động rồi nhấn Enter
• Nhập số để chọn một lựa chọn được gợi ý
• "trạng thái", "túi đồ", "nhìn" xem nhanh mà không tốn lượt
`

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	m.textarea.Reset()

	switch cmd {
	case "/help":
		m.note = titleStyle.Render("Trợ giúp:") + helpText

	case "/copy":
		text := lastNarration(m.gameState)
		if text == "" {
			m.note = systemStyle.Render("Chưa có đoạn dẫn truyện nào.")
			break
		}
		if err := clipboard.WriteAll(text); err != nil {
			m.note = errorStyle.Render("Không thể sao chép: " + err.Error())
			break
		}
		m.note = systemStyle.Render("Đã sao chép vào clipboard.")

	case "/use", "/drop", "/equip":
		if len(args) == 0 {
			m.note = errorStyle.Render("Thiếu id vật phẩm.")
			break
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			m.note = errorStyle.Render("Id vật phẩm không hợp lệ.")
			break
		}
		req := handlers.ActionRequest{Type: strings.TrimPrefix(cmd, "/"), ID: id}
		if len(args) > 1 {
			if q, err := strconv.Atoi(args[1]); err == nil {
				req.Quantity = q
			}
		}
		return m, m.sendAction(req)

	case "/unequip":
		if len(args) == 0 {
			m.note = errorStyle.Render("Thiếu vị trí trang bị.")
			break
		}
		return m, m.sendAction(handlers.ActionRequest{Type: handlers.ActionUnequip, Slot: strings.Join(args, " ")})

	default:
		m.note = errorStyle.Render("Lệnh không rõ: " + cmd)
	}

	m.writeChatContent()
	return m, nil
}

func lastNarration(gs *state.GameState) string {
	if gs == nil {
		return ""
	}
	for i := len(gs.StoryLog) - 1; i >= 0; i-- {
		if gs.StoryLog[i].Type == state.EntryAI {
			return gs.StoryLog[i].Text
		}
	}
	return ""
}

func (m ConsoleUI) sendTurn(action string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendTurn(m.client, m.config.APIBaseURL, m.gameState.ID, action)
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) openGame() tea.Cmd {
	return func() tea.Msg {
		resp, err := openGame(m.client, m.config.APIBaseURL, m.gameState.ID)
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) sendAction(req handlers.ActionRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendAction(m.client, m.config.APIBaseURL, m.gameState.ID, req)
		return actionResultMsg{resp, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		gs, err := getGameState(m.client, m.config.APIBaseURL, m.gameState.ID)
		return gameStateMsg{gs, err}
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
	content.WriteString(modalTitleStyle.Render("Thoát game?"))
	content.WriteString("\n\n")
	content.WriteString("Tiến trình đã được lưu. Mã game:\n")
	content.WriteString(m.gameState.ID.String())
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Y để thoát, N để tiếp tục, Ctrl+C để thoát ngay"))

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

	chatWidth := int(float64(m.width)*0.7) - 4
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
	usable := min(max(m.chatViewport.Width-6, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := range usable {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
