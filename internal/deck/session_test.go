package deck

import (
	"errors"
	"testing"
	"time"
)

func TestSession_AppendRequiresPresentation(t *testing.T) {
	s := NewSession()
	idx, err := s.Append(LayoutBoxes)
	if !errors.Is(err, ErrNoPresentation) {
		t.Fatalf("expected ErrNoPresentation, got %v", err)
	}
	if idx != NoSlide || s.Len() != 0 || s.Current() != NoSlide || s.Initialized() {
		t.Fatalf("session mutated: idx=%d len=%d current=%d", idx, s.Len(), s.Current())
	}
}

func TestSession_AppendAssignsAscendingIndex(t *testing.T) {
	s := NewSession()
	s.Replace(Metadata{Name: "a.pptx"}, nil)
	if s.Current() != NoSlide {
		t.Fatalf("empty session should have no current slide, got %d", s.Current())
	}
	for want := 0; want < 3; want++ {
		idx, err := s.Append("")
		if err != nil {
			t.Fatal(err)
		}
		if idx != want || s.Current() != want {
			t.Fatalf("append #%d: idx=%d current=%d", want, idx, s.Current())
		}
	}
	sl, _ := s.Slide(2)
	if sl.Index != 2 || sl.Layout != LayoutBoxes {
		t.Fatalf("unexpected slide: %+v", sl)
	}
}

func TestSession_ReplaceIsWholesale(t *testing.T) {
	s := NewSession()
	s.Replace(Metadata{Name: "old.pptx"}, []Slide{{Title: "x"}, {Title: "y"}})
	s.Replace(Metadata{Name: "new.pptx"}, []Slide{{Title: "z", Index: 7}})

	meta, ok := s.Metadata()
	if !ok || meta.Name != "new.pptx" {
		t.Fatalf("metadata=%+v ok=%v", meta, ok)
	}
	slides := s.Slides()
	if len(slides) != 1 || slides[0].Title != "z" || slides[0].Index != 0 {
		t.Fatalf("unexpected slides: %+v", slides)
	}
	if s.Current() != 0 {
		t.Fatalf("current=%d, want 0", s.Current())
	}
}

func TestSession_SlidesIsACopy(t *testing.T) {
	s := NewSession()
	s.Replace(Metadata{Name: "a"}, []Slide{{Title: "t", Content: []Bullet{{Title: "a", Body: "b"}}}})
	got := s.Slides()
	got[0].Content[0].Title = "mutated"
	again, _ := s.Slide(0)
	if again.Content[0].Title != "a" {
		t.Fatalf("internal state leaked through Slides()")
	}
}

func TestSession_SetOutOfRange(t *testing.T) {
	s := NewSession()
	s.Replace(Metadata{Name: "a"}, nil)
	if err := s.SetTitle(0, "x"); !errors.Is(err, ErrSlideIndex) {
		t.Fatalf("expected ErrSlideIndex, got %v", err)
	}
	if err := s.SetContent(-1, nil); !errors.Is(err, ErrSlideIndex) {
		t.Fatalf("expected ErrSlideIndex, got %v", err)
	}
}

func TestNewPresentationName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 7, 3, 0, time.Local)
	if got := NewPresentationName(now); got != "New Presentation 2024-3-5 973.pptx" {
		t.Fatalf("name=%q", got)
	}
	meta := NewMetadata(now)
	if meta.Size != "0 KB" || meta.LastModified == "" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if l, err := ParseLayout(" Versus "); err != nil || l != LayoutVersus {
		t.Fatalf("ParseLayout: %v %v", l, err)
	}
	if _, err := ParseLayout("grid"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
	if tier, ok := ParseTier("DETAILED"); !ok || tier != TierDetailed {
		t.Fatalf("ParseTier: %v %v", tier, ok)
	}
	if _, ok := ParseTier("huge"); ok {
		t.Fatalf("expected unknown tier")
	}
	if lo, hi := TierExpanded.SlideRange(); lo != 10 || hi != 20 {
		t.Fatalf("range=%d-%d", lo, hi)
	}
}
