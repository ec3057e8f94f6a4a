// Package tui is the full-screen chat front-end: chat pane, live preview
// pane and an input box.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"slidechat/internal/dialogue"
	"slidechat/internal/orchestrator"
	"slidechat/internal/preview"
)

// PaneID 面板标识
// PaneID identifies the pane that receives scroll keys
type PaneID int

const (
	PaneChat PaneID = iota
	PanePreview
)

// TaskDoneMsg 后台网关任务完成；Apply 在 Update 中执行
// TaskDoneMsg carries a finished gateway task. Its Apply runs inside Update,
// which is the only place the session is touched.
type TaskDoneMsg struct {
	Apply orchestrator.Apply
}

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	ctx  context.Context
	orch *orchestrator.Orchestrator

	// 布局 / Layout
	width  int
	height int

	// 面板 / Panes
	activePane  PaneID
	chatView    viewport.Model
	previewView viewport.Model
	input       textarea.Model

	chatContent string
	previewMD   string
	inFlight    int
	quitting    bool

	theme Theme
	keys  KeyMap
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application
func NewApp(ctx context.Context, orch *orchestrator.Orchestrator) App {
	if ctx == nil {
		ctx = context.Background()
	}
	keys := DefaultKeyMap()
	cat := orch.Catalog()

	ta := textarea.New()
	ta.Placeholder = cat.T("input.placeholder")
	ta.CharLimit = 8192
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	a := App{
		ctx:         ctx,
		orch:        orch,
		activePane:  PaneChat,
		chatView:    viewport.New(80, 20),
		previewView: viewport.New(40, 20),
		input:       ta,
		theme:       DarkTheme(),
		keys:        keys,
	}
	a.refreshPreview()
	a.appendReply(dialogue.Reply{Role: dialogue.RoleSystem, Text: cat.T("dialogue.idle")})
	return a
}

func (a App) Init() tea.Cmd {
	return textarea.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.SwitchPane):
			a.activePane = (a.activePane + 1) % 2
			return a, nil
		case key.Matches(msg, a.keys.New):
			return a, a.submit("/new")
		case key.Matches(msg, a.keys.AddSlide):
			return a, a.submit("/add")
		case key.Matches(msg, a.keys.Save):
			return a, a.submit("/save")
		case key.Matches(msg, a.keys.PageUp), key.Matches(msg, a.keys.PageDown):
			var cmd tea.Cmd
			if a.activePane == PanePreview {
				a.previewView, cmd = a.previewView.Update(msg)
			} else {
				a.chatView, cmd = a.chatView.Update(msg)
			}
			return a, cmd
		case key.Matches(msg, a.keys.Submit):
			text := a.input.Value()
			if strings.TrimSpace(text) == "" {
				return a, nil
			}
			a.input.Reset()
			return a, a.submit(text)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case TaskDoneMsg:
		if a.inFlight > 0 {
			a.inFlight--
		}
		if msg.Apply == nil {
			return a, nil
		}
		return a, a.apply(msg.Apply())
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit echoes the user's text and hands it to the orchestrator.
func (a *App) submit(text string) tea.Cmd {
	a.appendUser(text)
	return a.apply(a.orch.HandleInput(text))
}

// apply renders an orchestrator output and schedules its task, if any.
func (a *App) apply(out orchestrator.Output) tea.Cmd {
	for _, r := range out.Replies {
		a.appendReply(r)
	}
	if out.Changed || out.ShowPreview {
		a.refreshPreview()
	}
	if out.ShowPreview {
		a.activePane = PanePreview
	}
	if out.Quit {
		a.quitting = true
		return tea.Quit
	}
	if out.Task == nil {
		return nil
	}
	a.inFlight++
	return runTask(a.ctx, out.Task)
}

// runTask 在 tea.Cmd 协程中执行网关调用
// runTask runs the gateway call on a tea.Cmd goroutine.
func runTask(ctx context.Context, task orchestrator.Task) tea.Cmd {
	return func() tea.Msg {
		return TaskDoneMsg{Apply: task(ctx)}
	}
}

func (a App) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	chatWidth, previewWidth, paneHeight := a.paneSizes()
	cat := a.orch.Catalog()
	var main string
	switch {
	case previewWidth > 0:
		chat := a.renderPane(cat.T("panel.chat"), a.chatView.View(), chatWidth, paneHeight, a.activePane == PaneChat)
		pv := a.renderPane(cat.T("panel.preview"), a.previewView.View(), previewWidth, paneHeight, a.activePane == PanePreview)
		main = lipgloss.JoinHorizontal(lipgloss.Top, chat, pv)
	case a.activePane == PanePreview:
		main = a.renderPane(cat.T("panel.preview"), a.previewView.View(), chatWidth, paneHeight, true)
	default:
		main = a.renderPane(cat.T("panel.chat"), a.chatView.View(), chatWidth, paneHeight, true)
	}

	inputBox := a.theme.InputStyle.Width(a.width).Render(a.input.View())
	hint := a.theme.HintStyle.Render(" " + cat.T("keys.hint"))
	return lipgloss.JoinVertical(lipgloss.Left, main, inputBox, a.renderStatusBar(a.width), hint)
}

const (
	inputHeight  = 4 // textarea + top border
	statusHeight = 1
	hintHeight   = 1
	paneChrome   = 2 // rounded border top and bottom
)

// paneSizes splits the width 60/40 between chat and preview. Narrow
// terminals show only the active pane.
func (a App) paneSizes() (chatWidth, previewWidth, paneHeight int) {
	paneHeight = a.height - inputHeight - statusHeight - hintHeight - paneChrome
	if paneHeight < 3 {
		paneHeight = 3
	}
	if a.width < 80 {
		return a.width - paneChrome, 0, paneHeight
	}
	previewWidth = a.width*40/100 - paneChrome
	chatWidth = a.width - previewWidth - 2*paneChrome
	return chatWidth, previewWidth, paneHeight
}

func (a *App) relayout() {
	chatWidth, previewWidth, paneHeight := a.paneSizes()
	if previewWidth == 0 {
		previewWidth = chatWidth
	}
	a.chatView.Width, a.chatView.Height = max(chatWidth, 1), paneHeight-1
	a.previewView.Width, a.previewView.Height = max(previewWidth, 1), paneHeight-1
	a.chatView.SetContent(a.chatContent)
	a.chatView.GotoBottom()
	a.renderPreview()
	a.input.SetWidth(max(a.width-2, 10))
}

func (a *App) appendUser(text string) {
	a.writeChat(a.theme.UserStyle.Render("> " + text))
}

func (a *App) appendReply(r dialogue.Reply) {
	style := a.theme.AssistantStyle
	if r.Role == dialogue.RoleSystem {
		style = a.theme.SystemStyle
	}
	a.writeChat(style.Render(r.Text))
}

func (a *App) writeChat(text string) {
	a.chatContent += text + "\n"
	a.chatView.SetContent(a.chatContent)
	a.chatView.GotoBottom()
}

// refreshPreview regenerates the preview markdown from the session.
func (a *App) refreshPreview() {
	a.previewMD = preview.Markdown(a.orch.Session(), a.orch.Catalog())
	a.renderPreview()
}

func (a *App) renderPreview() {
	a.previewView.SetContent(preview.RenderMarkdown(a.previewMD, a.previewView.Width))
}

func (a App) renderPane(title, body string, width, height int, active bool) string {
	style := a.theme.PaneStyle
	if active {
		style = a.theme.ActivePaneStyle
	}
	header := a.theme.TitleStyle.Render(title)
	return style.Width(width).Height(height).Render(header + "\n" + body)
}

func (a App) renderStatusBar(width int) string {
	cat := a.orch.Catalog()
	status := cat.T("status.ready")
	style := a.theme.StatusBarStyle
	if a.inFlight > 0 {
		status = cat.T("status.waiting")
		style = a.theme.BusyStyle
	}
	mode := cat.T("status.mode", a.orch.Machine().Mode().String())
	slides := cat.T("status.slides", a.orch.Session().Len())

	left := fmt.Sprintf(" %s · %s", mode, slides)
	right := status + "  "
	if meta, ok := a.orch.Session().Metadata(); ok {
		left += " · " + meta.Name
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return style.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(ctx context.Context, orch *orchestrator.Orchestrator) error {
	app := NewApp(ctx, orch)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
