package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"slidechat/internal/deck"
	"slidechat/internal/gateway"
	"slidechat/internal/i18n"
	"slidechat/internal/orchestrator"
)

type stubGateway struct{}

func (stubGateway) Upload(context.Context, string, io.Reader) error { return nil }
func (stubGateway) FetchSlides(context.Context, string) ([]deck.Slide, error) {
	return nil, nil
}
func (stubGateway) GenerateContent(context.Context, string) (string, error) {
	return "Speed: fast builds\nSafety: typed", nil
}
func (stubGateway) GeneratePresentation(context.Context, string, deck.Tier) ([]deck.Slide, error) {
	return []deck.Slide{{Title: "Slide 1"}}, nil
}
func (stubGateway) Save(context.Context, gateway.SaveRequest) ([]byte, error) { return nil, nil }

func newTestApp(t *testing.T) App {
	t.Helper()
	orch := orchestrator.New(orchestrator.Options{
		Gateway: stubGateway{},
		Catalog: i18n.New("en"),
		Clock:   func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) },
	})
	app := NewApp(context.Background(), orch)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func send(t *testing.T, app App, text string) (App, tea.Cmd) {
	t.Helper()
	app.input.SetValue(text)
	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m.(App), cmd
}

func press(app App, k tea.KeyType) (App, tea.Cmd) {
	m, cmd := app.Update(tea.KeyMsg{Type: k})
	return m.(App), cmd
}

func TestAppUpdate_NewPresentationShortcut(t *testing.T) {
	app := newTestApp(t)

	app, cmd := press(app, tea.KeyCtrlN)
	if cmd != nil {
		t.Fatal("no gateway call expected for /new")
	}
	if got := app.orch.Machine().Mode().String(); got != "draft-confirmation" {
		t.Fatalf("mode=%q", got)
	}
	app, _ = send(t, app, "no")
	if !strings.Contains(app.chatContent, "New empty presentation created!") {
		t.Fatalf("chat:\n%s", app.chatContent)
	}
	if app.input.Value() != "" {
		t.Fatalf("input not cleared: %q", app.input.Value())
	}
	if !strings.Contains(app.previewMD, "New Presentation") {
		t.Fatalf("preview not refreshed:\n%s", app.previewMD)
	}
}

func TestAppUpdate_TaskRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app, _ = send(t, app, "/new")
	app, _ = send(t, app, "no")
	app, _ = press(app, tea.KeyCtrlA)
	app, _ = send(t, app, "ai")

	app, cmd := send(t, app, "Go")
	if cmd == nil {
		t.Fatal("expected a gateway task")
	}
	if app.inFlight != 1 {
		t.Fatalf("inFlight=%d", app.inFlight)
	}
	if !strings.Contains(app.renderStatusBar(120), "Waiting for gateway") {
		t.Fatalf("status bar: %q", app.renderStatusBar(120))
	}

	msg := cmd()
	done, ok := msg.(TaskDoneMsg)
	if !ok {
		t.Fatalf("unexpected msg %T", msg)
	}
	m, next := app.Update(done)
	app = m.(App)
	if next != nil {
		t.Fatal("no follow-up task expected")
	}
	if app.inFlight != 0 {
		t.Fatalf("inFlight=%d", app.inFlight)
	}
	if !strings.Contains(app.chatContent, "Slide has been created with AI-generated content!") {
		t.Fatalf("chat:\n%s", app.chatContent)
	}
	if !strings.Contains(app.previewMD, "Speed") {
		t.Fatalf("preview:\n%s", app.previewMD)
	}
}

func TestAppUpdate_EmptyInputIgnored(t *testing.T) {
	app := newTestApp(t)
	before := app.chatContent
	app, cmd := send(t, app, "   ")
	if cmd != nil || app.chatContent != before {
		t.Fatal("blank input should be ignored")
	}
}

func TestAppUpdate_PaneSwitchAndPreviewCommand(t *testing.T) {
	app := newTestApp(t)
	app, _ = press(app, tea.KeyTab)
	if app.activePane != PanePreview {
		t.Fatalf("pane=%v", app.activePane)
	}
	app, _ = press(app, tea.KeyTab)
	if app.activePane != PaneChat {
		t.Fatalf("pane=%v", app.activePane)
	}
	app, _ = send(t, app, "/preview")
	if app.activePane != PanePreview {
		t.Fatal("/preview should focus the preview pane")
	}
}

func TestAppUpdate_Quit(t *testing.T) {
	app := newTestApp(t)
	app, cmd := send(t, app, "/exit")
	if cmd == nil || !app.quitting {
		t.Fatal("expected quit")
	}
	if app.View() != "" {
		t.Fatal("view should be empty after quit")
	}

	app = newTestApp(t)
	app, cmd = press(app, tea.KeyCtrlC)
	if cmd == nil || !app.quitting {
		t.Fatal("ctrl+c should quit")
	}
}

func TestPaneSizes(t *testing.T) {
	app := newTestApp(t)
	chat, pv, h := app.paneSizes()
	if pv == 0 || chat <= pv || h < 3 {
		t.Fatalf("wide layout chat=%d preview=%d height=%d", chat, pv, h)
	}

	m, _ := app.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	app = m.(App)
	if _, pv, _ := app.paneSizes(); pv != 0 {
		t.Fatalf("narrow layout should hide preview, got %d", pv)
	}
	if !strings.Contains(app.View(), "Chat") {
		t.Fatal("chat pane missing in narrow view")
	}
}
