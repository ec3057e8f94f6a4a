package deck

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// NoSlide is the current-slide sentinel when nothing is selected.
const NoSlide = -1

var (
	ErrNoPresentation = errors.New("no presentation")
	ErrSlideIndex     = errors.New("slide index out of range")
)

// Session 当前演示文稿的内存模型；由调用方持有，不是全局状态
// Session is the in-memory model of the current presentation. It is an owned
// handle: callers construct independent sessions and pass them by pointer.
// A Session is not safe for concurrent use.
type Session struct {
	meta    *Metadata
	slides  []Slide
	current int
}

// NewSession returns an uninitialized session (no presentation).
func NewSession() *Session {
	return &Session{current: NoSlide}
}

// Initialized reports whether a presentation was created or loaded.
func (s *Session) Initialized() bool {
	return s.meta != nil
}

// Metadata returns a copy of the metadata and whether one is set.
func (s *Session) Metadata() (Metadata, bool) {
	if s.meta == nil {
		return Metadata{}, false
	}
	return *s.meta, true
}

// Slides 返回幻灯片的深拷贝
// Slides returns a deep copy of the slide list in display order
func (s *Session) Slides() []Slide {
	out := make([]Slide, len(s.slides))
	for i, sl := range s.slides {
		out[i] = sl
		out[i].Content = append([]Bullet(nil), sl.Content...)
	}
	return out
}

// Len returns the number of slides.
func (s *Session) Len() int { return len(s.slides) }

// Current returns the current slide index or NoSlide.
func (s *Session) Current() int { return s.current }

// Slide returns a copy of slide i.
func (s *Session) Slide(i int) (Slide, error) {
	if i < 0 || i >= len(s.slides) {
		return Slide{}, fmt.Errorf("%w: %d", ErrSlideIndex, i)
	}
	sl := s.slides[i]
	sl.Content = append([]Bullet(nil), sl.Content...)
	return sl, nil
}

// Replace 整体替换会话（新建/加载），不与旧会话合并
// Replace swaps the whole session for a new presentation. Slide indexes are
// reassigned in order; the first slide becomes current when there is one.
func (s *Session) Replace(meta Metadata, slides []Slide) {
	m := meta
	s.meta = &m
	s.slides = make([]Slide, 0, len(slides))
	for i, sl := range slides {
		sl.Index = i
		if sl.Layout == "" {
			sl.Layout = LayoutBoxes
		}
		sl.Content = append([]Bullet(nil), sl.Content...)
		s.slides = append(s.slides, sl)
	}
	s.current = NoSlide
	if len(s.slides) > 0 {
		s.current = 0
	}
}

// Append 追加一页空白幻灯片并设为当前页
// Append adds an empty slide at the end, makes it current and returns its index.
func (s *Session) Append(layout LayoutType) (int, error) {
	if s.meta == nil {
		return NoSlide, ErrNoPresentation
	}
	if layout == "" {
		layout = LayoutBoxes
	}
	idx := len(s.slides)
	s.slides = append(s.slides, Slide{Layout: layout, Index: idx})
	s.current = idx
	return idx, nil
}

// SetTitle sets the title of slide i.
func (s *Session) SetTitle(i int, title string) error {
	if i < 0 || i >= len(s.slides) {
		return fmt.Errorf("%w: %d", ErrSlideIndex, i)
	}
	s.slides[i].Title = title
	return nil
}

// SetContent replaces the bullets of slide i.
func (s *Session) SetContent(i int, content []Bullet) error {
	if i < 0 || i >= len(s.slides) {
		return fmt.Errorf("%w: %d", ErrSlideIndex, i)
	}
	s.slides[i].Content = append([]Bullet(nil), content...)
	return nil
}

// NewPresentationName 以时间戳生成新演示文稿文件名（各字段不补零）
// NewPresentationName derives a file name from the timestamp. Date and time
// components are not zero-padded.
func NewPresentationName(now time.Time) string {
	return fmt.Sprintf("New Presentation %d-%d-%d %d%d%d.pptx",
		now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), now.Second())
}

// NewMetadata builds metadata for a freshly created, empty presentation.
func NewMetadata(now time.Time) Metadata {
	return Metadata{
		Name:         NewPresentationName(now),
		Size:         "0 KB",
		LastModified: FormatTimestamp(now),
	}
}

// FormatTimestamp renders a local display timestamp.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize 以 1024 为基数格式化文件大小
// FormatSize renders a byte count for display, e.g. "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}
