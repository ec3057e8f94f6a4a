package dialogue

import "fmt"

// ModeKind 标识用户下一条自由文本的含义
// ModeKind tags what the next free-text message from the user means.
type ModeKind int

const (
	ModeNone ModeKind = iota
	ModeDraftConfirmation
	ModeSlideCountTier
	ModeFreeformContent
	ModeContentChoice
	ModeAITitle
	ModeTitle
	ModeContent
)

var modeNames = [...]string{
	ModeNone:              "none",
	ModeDraftConfirmation: "draft-confirmation",
	ModeSlideCountTier:    "slide-count-tier",
	ModeFreeformContent:   "freeform-content",
	ModeContentChoice:     "content-choice",
	ModeAITitle:           "ai-title",
	ModeTitle:             "title",
	ModeContent:           "content",
}

func (k ModeKind) String() string {
	if k < 0 || int(k) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(k))
	}
	return modeNames[k]
}

// PerSlide reports whether the kind targets a single slide.
func (k ModeKind) PerSlide() bool {
	return k >= ModeContentChoice && k <= ModeContent
}

// Mode 单一的对话模式值：种类 + 目标幻灯片索引（仅单页模式有效）
// Mode is the single active dialogue mode. Slide is meaningful only for
// per-slide kinds and is deck.NoSlide otherwise.
type Mode struct {
	Kind  ModeKind
	Slide int
}

func (m Mode) String() string {
	if m.Kind.PerSlide() {
		return fmt.Sprintf("%s(%d)", m.Kind, m.Slide)
	}
	return m.Kind.String()
}
