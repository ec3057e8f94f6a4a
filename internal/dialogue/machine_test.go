package dialogue

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"slidechat/internal/deck"
	"slidechat/internal/i18n"
)

var fixedNow = time.Date(2024, time.March, 5, 9, 7, 3, 0, time.Local)

func newTestMachine() *Machine {
	return New(deck.NewSession(),
		WithClock(func() time.Time { return fixedNow }),
		WithCatalog(i18n.New("en")),
	)
}

func lastText(st Step) string {
	if len(st.Replies) == 0 {
		return ""
	}
	return st.Replies[len(st.Replies)-1].Text
}

func mustAdd(t *testing.T, m *Machine) int {
	t.Helper()
	if _, err := m.AddSlide(deck.LayoutBoxes); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	return m.Mode().Slide
}

func startEmpty(t *testing.T, m *Machine) {
	t.Helper()
	m.StartNew()
	m.Handle("no")
	if !m.Session().Initialized() {
		t.Fatal("expected an empty presentation after answering no")
	}
}

func TestMachine_NoCreatesEmptyTimestampedSession(t *testing.T) {
	m := newTestMachine()
	st := m.StartNew()
	if m.Mode().Kind != ModeDraftConfirmation {
		t.Fatalf("mode=%v", m.Mode())
	}
	if lastText(st) != "Do you want me to do a first draft based on a content? (yes/no)" {
		t.Fatalf("prompt=%q", lastText(st))
	}

	st = m.Handle("No")
	if m.Mode().Kind != ModeNone {
		t.Fatalf("mode=%v, want none", m.Mode())
	}
	if !st.Changed || st.Request != nil {
		t.Fatalf("unexpected step: %+v", st)
	}
	meta, ok := m.Session().Metadata()
	if !ok || meta.Name != "New Presentation 2024-3-5 973.pptx" || meta.Size != "0 KB" {
		t.Fatalf("metadata=%+v ok=%v", meta, ok)
	}
	if m.Session().Len() != 0 || m.Session().Current() != deck.NoSlide {
		t.Fatalf("expected zero slides, got %d", m.Session().Len())
	}
}

func TestMachine_DraftConfirmationReprompts(t *testing.T) {
	m := newTestMachine()
	m.StartNew()
	st := m.Handle("maybe")
	if m.Mode().Kind != ModeDraftConfirmation {
		t.Fatalf("mode changed to %v", m.Mode())
	}
	if lastText(st) != `Please answer with "yes" or "no"` {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Session().Initialized() {
		t.Fatal("session should stay uninitialized")
	}
}

func TestMachine_YesBriefRemembersTier(t *testing.T) {
	m := newTestMachine()
	m.StartNew()
	m.Handle("YES")
	if m.Mode().Kind != ModeSlideCountTier {
		t.Fatalf("mode=%v", m.Mode())
	}

	st := m.Handle("huge")
	if m.Mode().Kind != ModeSlideCountTier || !strings.Contains(lastText(st), "- detailed") {
		t.Fatalf("invalid tier not re-prompted: mode=%v reply=%q", m.Mode(), lastText(st))
	}

	m.Handle("Brief")
	if m.Mode().Kind != ModeFreeformContent {
		t.Fatalf("mode=%v, want freeform-content", m.Mode())
	}
	if m.Tier() != deck.TierBrief {
		t.Fatalf("tier=%q", m.Tier())
	}

	st = m.Handle("Quarterly results\nRevenue up")
	if st.Request == nil {
		t.Fatal("expected a generation request")
	}
	if st.Request.Kind != RequestPresentation || st.Request.Tier != deck.TierBrief ||
		st.Request.Content != "Quarterly results\nRevenue up" {
		t.Fatalf("request=%+v", st.Request)
	}
	if m.Mode().Kind != ModeNone || !m.Pending() {
		t.Fatalf("mode=%v pending=%v", m.Mode(), m.Pending())
	}

	slides := []deck.Slide{
		{Title: "Overview", Content: []deck.Bullet{{Title: "Revenue", Body: "up"}}},
		{Title: "Next"},
	}
	st = m.Complete(st.Request, Result{Slides: slides})
	if st.Stale || !st.Changed {
		t.Fatalf("result not applied: %+v", st)
	}
	if lastText(st) != "Presentation created successfully with 2 slides!" {
		t.Fatalf("reply=%q", lastText(st))
	}
	got := m.Session().Slides()
	if len(got) != 2 || got[1].Index != 1 || got[1].Layout != deck.LayoutBoxes {
		t.Fatalf("slides=%+v", got)
	}
	if m.Pending() {
		t.Fatal("request should be cleared")
	}
}

func TestMachine_PresentationFailureReports(t *testing.T) {
	m := newTestMachine()
	m.StartNew()
	m.Handle("yes")
	m.Handle("detailed")
	st := m.Handle("content")
	st = m.Complete(st.Request, Result{Err: errors.New("boom")})
	if lastText(st) != "Sorry, there was an error creating the presentation. Please try again." {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Session().Initialized() || m.Mode().Kind != ModeNone {
		t.Fatalf("failure mutated state: mode=%v", m.Mode())
	}
}

func TestMachine_EndToEndManualSlide(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)

	st, err := m.AddSlide(deck.LayoutVersus)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Replies) != 2 || st.Replies[0].Text != "How would you like to create the slide content?" {
		t.Fatalf("replies=%+v", st.Replies)
	}
	if m.Mode() != (Mode{Kind: ModeContentChoice, Slide: 0}) {
		t.Fatalf("mode=%v", m.Mode())
	}

	m.Handle("manual")
	if m.Mode().Kind != ModeTitle {
		t.Fatalf("mode=%v", m.Mode())
	}
	st = m.Handle("Intro")
	if m.Mode().Kind != ModeContent || len(st.Replies) != 2 {
		t.Fatalf("mode=%v replies=%d", m.Mode(), len(st.Replies))
	}
	st = m.Handle("* A: first\n* B: second")
	if lastText(st) != "Slide has been created successfully!" {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Mode().Kind != ModeNone {
		t.Fatalf("mode=%v, want none", m.Mode())
	}

	got, err := m.Session().Slide(0)
	if err != nil {
		t.Fatal(err)
	}
	want := deck.Slide{
		Title:   "Intro",
		Content: []deck.Bullet{{Title: "A", Body: "first"}, {Title: "B", Body: "second"}},
		Layout:  deck.LayoutVersus,
		Index:   0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("slide mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_ContentChoiceReprompts(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)
	mustAdd(t, m)
	st := m.Handle("robot")
	if lastText(st) != "Please type either 'AI' or 'MANUAL' to proceed." {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Mode().Kind != ModeContentChoice {
		t.Fatalf("mode=%v", m.Mode())
	}
}

func TestMachine_AIContentSuccess(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)
	i := mustAdd(t, m)

	m.Handle("Ai")
	if m.Mode() != (Mode{Kind: ModeAITitle, Slide: i}) {
		t.Fatalf("mode=%v", m.Mode())
	}
	st := m.Handle("Roadmap")
	if st.Request == nil || st.Request.Kind != RequestContent || st.Request.Title != "Roadmap" {
		t.Fatalf("request=%+v", st.Request)
	}
	if st.Request.ID == "" || st.Request.Mode.Slide != i {
		t.Fatalf("request not tagged: %+v", st.Request)
	}

	busy := m.Handle("another")
	if busy.Request != nil || lastText(busy) != "Still waiting for the previous request to finish." {
		t.Fatalf("second request issued while pending: %+v", busy)
	}

	st = m.Complete(st.Request, Result{Content: "1. Q1: plan\n2. Q2: build"})
	if lastText(st) != "Slide has been created with AI-generated content!" {
		t.Fatalf("reply=%q", lastText(st))
	}
	got, _ := m.Session().Slide(i)
	if got.Title != "Roadmap" || len(got.Content) != 2 || got.Content[1].Title != "Q2" {
		t.Fatalf("slide=%+v", got)
	}
	if m.Mode().Kind != ModeNone {
		t.Fatalf("mode=%v", m.Mode())
	}
}

func TestMachine_FailedAIRevertsWithoutDuplicating(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)
	i := mustAdd(t, m)

	for attempt := 0; attempt < 2; attempt++ {
		m.Handle("AI")
		st := m.Handle("Topic")
		st = m.Complete(st.Request, Result{Err: errors.New("gateway down")})
		if lastText(st) != "Error generating content. Please try manual input by typing 'MANUAL'." {
			t.Fatalf("reply=%q", lastText(st))
		}
		if m.Mode() != (Mode{Kind: ModeContentChoice, Slide: i}) {
			t.Fatalf("attempt %d: mode=%v", attempt, m.Mode())
		}
		if m.Session().Len() != 1 || m.Session().Current() != i {
			t.Fatalf("attempt %d: len=%d current=%d", attempt, m.Session().Len(), m.Session().Current())
		}
		sl, _ := m.Session().Slide(i)
		if sl.Index != i || sl.Title != "" {
			t.Fatalf("attempt %d: slide changed: %+v", attempt, sl)
		}
	}

	m.Handle("MANUAL")
	if m.Mode().Kind != ModeTitle {
		t.Fatalf("manual fallback not reachable: %v", m.Mode())
	}
}

func TestMachine_StaleResultDiscarded(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)
	i := mustAdd(t, m)
	m.Handle("AI")
	st := m.Handle("Old topic")
	req := st.Request

	// user moves on before the gateway answers
	m.Handle("ignored while pending")
	if _, err := m.AddSlide(deck.LayoutBrain); err != nil {
		t.Fatal(err)
	}
	m.Handle("manual")
	m.Handle("Fresh title")

	st = m.Complete(req, Result{Content: "X: y"})
	if !st.Stale || st.Changed {
		t.Fatalf("stale result applied: %+v", st)
	}
	old, _ := m.Session().Slide(i)
	if old.Title != "" || len(old.Content) != 0 {
		t.Fatalf("stale result mutated slide %d: %+v", i, old)
	}
	if m.Mode() != (Mode{Kind: ModeContent, Slide: 1}) {
		t.Fatalf("stale result changed mode: %v", m.Mode())
	}
}

func TestMachine_StalePresentationAfterRestart(t *testing.T) {
	m := newTestMachine()
	m.StartNew()
	m.Handle("yes")
	m.Handle("brief")
	st := m.Handle("content")
	m.StartNew()
	st = m.Complete(st.Request, Result{Slides: []deck.Slide{{Title: "late"}}})
	if !st.Stale || m.Session().Initialized() {
		t.Fatalf("late presentation applied: %+v", st)
	}
	if m.Mode().Kind != ModeDraftConfirmation {
		t.Fatalf("mode=%v", m.Mode())
	}
}

func TestMachine_AddSlideWithoutPresentation(t *testing.T) {
	m := newTestMachine()
	st, err := m.AddSlide(deck.LayoutBoxes)
	if !errors.Is(err, ErrNoPresentation) {
		t.Fatalf("err=%v", err)
	}
	if lastText(st) != "Please create or load a presentation first" {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Session().Len() != 0 || m.Session().Initialized() || m.Mode().Kind != ModeNone {
		t.Fatalf("state mutated: len=%d mode=%v", m.Session().Len(), m.Mode())
	}
}

func TestMachine_SaveRequiresSlides(t *testing.T) {
	m := newTestMachine()
	if _, err := m.Save(); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("no presentation: err=%v", err)
	}
	startEmpty(t, m)
	if _, err := m.Save(); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("empty presentation: err=%v", err)
	}
	mustAdd(t, m)
	req, err := m.Save()
	if err != nil {
		t.Fatal(err)
	}
	if req.Filename != "New Presentation 2024-3-5 973.pptx" || len(req.Slides) != 1 {
		t.Fatalf("save request=%+v", req)
	}
}

func TestMachine_LoadReplacesSession(t *testing.T) {
	m := newTestMachine()
	startEmpty(t, m)
	mustAdd(t, m)
	st := m.Load(deck.Metadata{Name: "deck.pptx", Size: "1.5 KB"}, []deck.Slide{{Title: "One"}, {Title: "Two"}})
	if lastText(st) != "Successfully loaded presentation: deck.pptx" {
		t.Fatalf("reply=%q", lastText(st))
	}
	if m.Mode().Kind != ModeNone || m.Session().Len() != 2 || m.Session().Current() != 0 {
		t.Fatalf("mode=%v len=%d current=%d", m.Mode(), m.Session().Len(), m.Session().Current())
	}
}

func TestMachine_IdleHint(t *testing.T) {
	m := newTestMachine()
	if st := m.Handle("   "); len(st.Replies) != 0 {
		t.Fatalf("blank input produced replies: %+v", st.Replies)
	}
	st := m.Handle("hello")
	if lastText(st) != "Type /new to start a presentation or /add to add a slide." {
		t.Fatalf("reply=%q", lastText(st))
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"YES", CmdYes, true},
		{" no ", CmdNo, true},
		{"Ai", CmdAI, true},
		{"Manual", CmdManual, true},
		{"Expanded", CmdExpanded, true},
		{"yes please", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCommand(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCommand(%q)=%q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if tier, ok := CmdDetailed.Tier(); !ok || tier != deck.TierDetailed {
		t.Fatalf("CmdDetailed.Tier()=%q,%v", tier, ok)
	}
}

func TestModeString(t *testing.T) {
	if got := (Mode{Kind: ModeAITitle, Slide: 2}).String(); got != "ai-title(2)" {
		t.Fatalf("String()=%q", got)
	}
	if got := (Mode{Kind: ModeNone, Slide: deck.NoSlide}).String(); got != "none" {
		t.Fatalf("String()=%q", got)
	}
}
