package orchestrator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"slidechat/internal/deck"
	"slidechat/internal/dialogue"
	"slidechat/internal/gateway"
	"slidechat/internal/i18n"
	"slidechat/internal/prefs"
	"slidechat/internal/storage"
)

type fakeGateway struct {
	mu sync.Mutex

	uploaded   []string
	fetchSlide []deck.Slide
	content    string
	slides     []deck.Slide
	saved      []gateway.SaveRequest
	saveBody   []byte
	err        error
	calls      int
}

func (f *fakeGateway) Upload(_ context.Context, name string, r io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	_, _ = io.ReadAll(r)
	f.uploaded = append(f.uploaded, name)
	return f.err
}

func (f *fakeGateway) FetchSlides(context.Context, string) ([]deck.Slide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fetchSlide, f.err
}

func (f *fakeGateway) GenerateContent(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.content, f.err
}

func (f *fakeGateway) GeneratePresentation(context.Context, string, deck.Tier) ([]deck.Slide, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.slides, f.err
}

func (f *fakeGateway) Save(_ context.Context, req gateway.SaveRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.saved = append(f.saved, req)
	return f.saveBody, f.err
}

var fixedNow = time.Date(2024, 3, 5, 9, 7, 3, 0, time.Local)

func newTestOrchestrator(t *testing.T, gw gateway.Gateway) (*Orchestrator, storage.Store) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "slidechat.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	o := New(Options{
		Gateway:   gw,
		Store:     store,
		Catalog:   i18n.New("en"),
		OutputDir: t.TempDir(),
		Clock:     func() time.Time { return fixedNow },
	})
	return o, store
}

func texts(out Output) []string {
	var s []string
	for _, r := range out.Replies {
		s = append(s, r.Text)
	}
	return s
}

func lastText(out Output) string {
	if len(out.Replies) == 0 {
		return ""
	}
	return out.Replies[len(out.Replies)-1].Text
}

func TestParseSlashCommand(t *testing.T) {
	tests := []struct {
		in      string
		command string
		args    string
		ok      bool
	}{
		{in: "/add versus", command: "add", args: "versus", ok: true},
		{in: "  /LOAD  my deck.pptx ", command: "load", args: "my deck.pptx", ok: true},
		{in: "/", ok: true},
		{in: "hello", ok: false},
	}
	for _, tt := range tests {
		command, args, ok := parseSlashCommand(tt.in)
		if command != tt.command || args != tt.args || ok != tt.ok {
			t.Errorf("parseSlashCommand(%q) = %q, %q, %v", tt.in, command, args, ok)
		}
	}
}

func TestDraftFlowGeneratesPresentation(t *testing.T) {
	gw := &fakeGateway{slides: []deck.Slide{{Title: "Slide 1: Intro"}, {Title: "Slide 2: Body"}}}
	o, _ := newTestOrchestrator(t, gw)
	ctx := context.Background()

	if got := lastText(o.RunInput(ctx, "/new")); !strings.HasPrefix(got, "Do you want me to do a first draft") {
		t.Fatalf("new: %q", got)
	}
	o.RunInput(ctx, "YES")
	o.RunInput(ctx, "brief")
	out := o.RunInput(ctx, "Go in production")
	if got := lastText(out); got != "Presentation created successfully with 2 slides!" {
		t.Fatalf("replies=%q", texts(out))
	}
	if !out.Changed || o.Session().Len() != 2 {
		t.Fatalf("changed=%v len=%d", out.Changed, o.Session().Len())
	}
}

func TestManualSlide(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeGateway{})
	ctx := context.Background()

	o.RunInput(ctx, "/new")
	o.RunInput(ctx, "no")
	if out := o.RunInput(ctx, "/add diagonal"); !strings.Contains(lastText(out), "Unknown layout") {
		t.Fatalf("invalid layout accepted: %q", texts(out))
	}
	o.RunInput(ctx, "/add Versus")
	o.RunInput(ctx, "manual")
	o.RunInput(ctx, "Pros and cons")
	out := o.RunInput(ctx, "* Fast: compiles quickly\n* Simple")

	sl, err := o.Session().Slide(0)
	if err != nil {
		t.Fatal(err)
	}
	want := deck.Slide{
		Title:   "Pros and cons",
		Layout:  deck.LayoutVersus,
		Content: []deck.Bullet{{Title: "Fast", Body: "compiles quickly"}, {Title: "Simple", Body: "Simple"}},
	}
	if diff := cmp.Diff(want, sl); diff != "" {
		t.Fatalf("slide mismatch (-want +got):\n%s", diff)
	}
	if !out.Changed {
		t.Fatal("expected preview refresh")
	}
}

func TestAddWithoutPresentation(t *testing.T) {
	gw := &fakeGateway{}
	o, _ := newTestOrchestrator(t, gw)
	out := o.RunInput(context.Background(), "/add")
	if lastText(out) != "Please create or load a presentation first" || out.Changed {
		t.Fatalf("out=%+v", out)
	}
	if o.Session().Initialized() {
		t.Fatal("session should stay uninitialized")
	}
}

func TestAIFailureThenManual(t *testing.T) {
	gw := &fakeGateway{err: errors.New("offline")}
	o, _ := newTestOrchestrator(t, gw)
	ctx := context.Background()

	o.RunInput(ctx, "/new")
	o.RunInput(ctx, "no")
	o.RunInput(ctx, "/add")
	o.RunInput(ctx, "ai")
	out := o.RunInput(ctx, "Concurrency")
	if lastText(out) != "Error generating content. Please try manual input by typing 'MANUAL'." {
		t.Fatalf("replies=%q", texts(out))
	}
	if o.Machine().Mode().Kind != dialogue.ModeContentChoice || o.Session().Len() != 1 {
		t.Fatalf("mode=%v len=%d", o.Machine().Mode(), o.Session().Len())
	}
}

func TestStaleTaskIsDropped(t *testing.T) {
	gw := &fakeGateway{content: "A: b"}
	o, _ := newTestOrchestrator(t, gw)
	ctx := context.Background()

	o.RunInput(ctx, "/new")
	o.RunInput(ctx, "no")
	o.RunInput(ctx, "/add")
	o.RunInput(ctx, "ai")
	pending := o.HandleInput("Generics")
	if pending.Task == nil {
		t.Fatal("expected a gateway task")
	}
	// The user moves on before the response arrives.
	o.HandleInput("/add brain")

	apply := pending.Task(ctx)
	out := apply()
	if out.Changed {
		t.Fatal("stale result must not change the session")
	}
	sl, _ := o.Session().Slide(0)
	if sl.Title != "" || len(sl.Content) != 0 {
		t.Fatalf("slide 0 mutated: %+v", sl)
	}
	if o.Machine().Mode().Kind != dialogue.ModeContentChoice || o.Machine().Mode().Slide != 1 {
		t.Fatalf("mode=%v", o.Machine().Mode())
	}
}

func TestLoad(t *testing.T) {
	gw := &fakeGateway{fetchSlide: []deck.Slide{{Title: "From file"}}}
	o, _ := newTestOrchestrator(t, gw)
	ctx := context.Background()

	if out := o.RunInput(ctx, "/load notes.txt"); lastText(out) != "Please select a valid PowerPoint file (.ppt or .pptx)" {
		t.Fatalf("replies=%q", texts(out))
	}
	if gw.calls != 0 {
		t.Fatalf("invalid file reached the gateway")
	}

	path := filepath.Join(t.TempDir(), "Deck.pptx")
	if err := os.WriteFile(path, make([]byte, 1536), 0o644); err != nil {
		t.Fatal(err)
	}
	out := o.RunInput(ctx, "/load "+path)
	if lastText(out) != "Successfully loaded presentation: Deck.pptx" {
		t.Fatalf("replies=%q", texts(out))
	}
	meta, ok := o.Session().Metadata()
	if !ok || meta.Name != "Deck.pptx" || meta.Size != "1.5 KB" {
		t.Fatalf("meta=%+v", meta)
	}
	if diff := cmp.Diff([]string{"Deck.pptx"}, gw.uploaded); diff != "" {
		t.Fatalf("uploads (-want +got):\n%s", diff)
	}
}

func TestLoadFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("boom")}
	o, _ := newTestOrchestrator(t, gw)
	path := filepath.Join(t.TempDir(), "deck.ppt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := o.RunInput(context.Background(), "/load "+path)
	if lastText(out) != "Error uploading presentation. Please try again." {
		t.Fatalf("replies=%q", texts(out))
	}
	if o.Session().Initialized() {
		t.Fatal("failed load must not touch the session")
	}
}

func TestSave(t *testing.T) {
	gw := &fakeGateway{saveBody: []byte("PPTX")}
	o, store := newTestOrchestrator(t, gw)
	ctx := context.Background()

	if out := o.RunInput(ctx, "/save"); lastText(out) != "No presentation to save" {
		t.Fatalf("replies=%q", texts(out))
	}
	o.RunInput(ctx, "/new")
	o.RunInput(ctx, "no")
	if out := o.RunInput(ctx, "/save"); lastText(out) != "No presentation to save" {
		t.Fatalf("empty presentation: %q", texts(out))
	}
	if gw.calls != 0 {
		t.Fatalf("gateway called %d times for nothing to save", gw.calls)
	}

	colors, err := prefs.NewStyleColors("#112233", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveStyleColors(store, colors); err != nil {
		t.Fatal(err)
	}
	o.RunInput(ctx, "/add")
	o.RunInput(ctx, "manual")
	o.RunInput(ctx, "Title")
	o.RunInput(ctx, "A: b")

	dest := filepath.Join(t.TempDir(), "out", "deck.pptx")
	out := o.RunInput(ctx, "/save "+dest)
	if got := texts(out); len(got) != 2 || got[0] != "Presentation saved successfully!" {
		t.Fatalf("replies=%q", got)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "PPTX" {
		t.Fatalf("written=%q err=%v", data, err)
	}
	req := gw.saved[0]
	if req.Filename != "New Presentation 2024-3-5 973.pptx" || len(req.Slides) != 1 {
		t.Fatalf("save request=%+v", req)
	}
	if req.StyleColors.ContentTextColorRGB != "17,34,51" {
		t.Fatalf("style colors not merged: %+v", req.StyleColors)
	}
}

func TestSaveDefaultDestination(t *testing.T) {
	gw := &fakeGateway{saveBody: []byte("doc")}
	o, _ := newTestOrchestrator(t, gw)
	o.Machine().Load(deck.Metadata{Name: "a.pptx"}, []deck.Slide{{Title: "x"}})

	o.RunInput(context.Background(), "/save")
	if _, err := os.Stat(filepath.Join(o.outputDir, DefaultOutputName)); err != nil {
		t.Fatalf("default output missing: %v", err)
	}
}

func TestDrafts(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeGateway{})
	ctx := context.Background()

	if out := o.RunInput(ctx, "/draft save"); lastText(out) != "Please create or load a presentation first" {
		t.Fatalf("replies=%q", texts(out))
	}
	if got := lastText(o.RunInput(ctx, "/draft list")); got != "No drafts found" {
		t.Fatalf("list=%q", got)
	}

	o.Machine().Load(deck.Metadata{Name: "Roadmap.pptx"}, []deck.Slide{{Title: "Q1"}, {Title: "Q2"}})
	o.RunInput(ctx, "/draft save")
	id := o.draftID
	if id == "" {
		t.Fatal("draft id not remembered")
	}
	o.RunInput(ctx, "/draft save")
	if o.draftID != id {
		t.Fatalf("second save created a new draft: %s vs %s", o.draftID, id)
	}
	list := lastText(o.RunInput(ctx, "/draft list"))
	if !strings.Contains(list, id) || !strings.Contains(list, "2 slides") || !strings.HasPrefix(list, "*") {
		t.Fatalf("list=%q", list)
	}

	o.Machine().Load(deck.Metadata{Name: "Other.pptx"}, nil)
	out := o.RunInput(ctx, "/draft open "+id)
	if lastText(out) != "Draft opened: Roadmap.pptx" || !out.Changed {
		t.Fatalf("out=%+v", out)
	}
	if o.Session().Len() != 2 {
		t.Fatalf("len=%d", o.Session().Len())
	}

	if got := lastText(o.RunInput(ctx, "/draft open missing")); !strings.HasPrefix(got, "Draft error:") {
		t.Fatalf("open missing=%q", got)
	}
	if got := lastText(o.RunInput(ctx, "/draft delete "+id)); got != "Draft deleted: "+id {
		t.Fatalf("delete=%q", got)
	}
	if got := lastText(o.RunInput(ctx, "/draft")); !strings.HasPrefix(got, "Usage: /draft") {
		t.Fatalf("usage=%q", got)
	}
}

func TestMiscCommands(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	ctx := context.Background()

	if out := o.RunInput(ctx, "/preview"); !out.ShowPreview {
		t.Fatal("expected preview request")
	}
	if out := o.RunInput(ctx, "/exit"); !out.Quit {
		t.Fatal("expected quit")
	}
	if got := lastText(o.RunInput(ctx, "/frobnicate")); got != "Unknown command: /frobnicate" {
		t.Fatalf("unknown=%q", got)
	}
	if got := lastText(o.RunInput(ctx, "/help")); !strings.Contains(got, "/draft") {
		t.Fatalf("help=%q", got)
	}
	if got := lastText(o.RunInput(ctx, "/load")); got != "Usage: /load <path>" {
		t.Fatalf("load usage=%q", got)
	}
}

func TestNilGatewayFailsGracefully(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	ctx := context.Background()
	o.RunInput(ctx, "/new")
	o.RunInput(ctx, "yes")
	o.RunInput(ctx, "detailed")
	out := o.RunInput(ctx, "anything")
	if lastText(out) != "Sorry, there was an error creating the presentation. Please try again." {
		t.Fatalf("replies=%q", texts(out))
	}
}
