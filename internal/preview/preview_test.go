package preview

import (
	"strings"
	"testing"

	"slidechat/internal/deck"
	"slidechat/internal/i18n"
)

func TestMarkdown_NoPresentation(t *testing.T) {
	got := Markdown(deck.NewSession(), i18n.New("en"))
	if !strings.Contains(got, "No presentation loaded.") {
		t.Fatalf("got %q", got)
	}
}

func TestMarkdown_NoSlides(t *testing.T) {
	s := deck.NewSession()
	s.Replace(deck.Metadata{Name: "deck.pptx", Size: "0 Bytes", LastModified: "2024-03-05 10:00"}, nil)

	got := Markdown(s, i18n.New("en"))
	for _, want := range []string{"# deck.pptx", "0 Bytes", "No slides yet."} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestMarkdown_Slides(t *testing.T) {
	s := deck.NewSession()
	s.Replace(deck.Metadata{Name: "deck.pptx"}, []deck.Slide{
		{Title: "Intro", Layout: deck.LayoutBoxes, Content: []deck.Bullet{{Title: "Why", Body: "Because"}}},
	})
	idx, err := s.Append(deck.LayoutVersus)
	if err != nil {
		t.Fatal(err)
	}

	got := Markdown(s, i18n.New("en"))
	for _, want := range []string{
		"## Slide 1: Intro\n",
		"* Why: Because",
		"## Slide 2: Untitled slide ◀",
		"`versus`",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if idx != 1 {
		t.Fatalf("idx=%d", idx)
	}
}

func TestMarkdown_Localized(t *testing.T) {
	s := deck.NewSession()
	s.Replace(deck.Metadata{Name: "deck.pptx"}, []deck.Slide{{Title: ""}})
	got := Markdown(s, i18n.New("zh-CN"))
	if strings.Contains(got, "Untitled slide") {
		t.Fatalf("expected localized untitled label: %q", got)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	if RenderMarkdown("", 80) != "" {
		t.Fatal("empty input should return empty")
	}
	if RenderMarkdown("  ", 80) != "" {
		t.Fatal("whitespace input should return empty")
	}
}

func TestRender_ContainsTitle(t *testing.T) {
	s := deck.NewSession()
	s.Replace(deck.Metadata{Name: "deck.pptx"}, []deck.Slide{{Title: "Roadmap"}})
	got := Render(s, i18n.New("en"), 60)
	if !strings.Contains(got, "Roadmap") {
		t.Fatalf("rendered preview should contain the slide title: %q", got)
	}
}
