package deck

import (
	"fmt"
	"strings"
)

// Bullet 幻灯片中的一条要点（标题 + 正文）
// Bullet is one (title, body) record extracted from a line of slide content
type Bullet struct {
	Title string `json:"title"`
	Body  string `json:"content"`
}

// LayoutType 幻灯片版式
// LayoutType is the layout tag chosen when a slide is created
type LayoutType string

const (
	LayoutBoxes  LayoutType = "boxes"
	LayoutVersus LayoutType = "versus"
	LayoutBrain  LayoutType = "brain"
)

// Layouts lists the layouts in menu order.
var Layouts = []LayoutType{LayoutBoxes, LayoutVersus, LayoutBrain}

// ParseLayout 大小写不敏感地解析版式名；空字符串返回默认版式
// ParseLayout parses a layout name case-insensitively; empty input yields the default layout
func ParseLayout(s string) (LayoutType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LayoutBoxes, nil
	}
	for _, l := range Layouts {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// Tier 幻灯片数量档位
// Tier controls the target slide count for full-presentation generation
type Tier string

const (
	TierBrief    Tier = "brief"
	TierExpanded Tier = "expanded"
	TierDetailed Tier = "detailed"
)

// Tiers lists the tiers in prompt order.
var Tiers = []Tier{TierBrief, TierExpanded, TierDetailed}

// ParseTier 大小写不敏感地解析档位
// ParseTier parses a tier name case-insensitively
func ParseTier(s string) (Tier, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// SlideRange returns the target slide count range for the tier.
func (t Tier) SlideRange() (lo, hi int) {
	switch t {
	case TierExpanded:
		return 10, 20
	case TierDetailed:
		return 20, 30
	default:
		return 5, 10
	}
}

// Slide 单页幻灯片
// Slide is one unit of presentation content
type Slide struct {
	Title   string     `json:"title"`
	Content []Bullet   `json:"content"`
	Layout  LayoutType `json:"layoutType"`
	Index   int        `json:"index"`
}

// Metadata 演示文稿元数据，与幻灯片数据相互独立
// Metadata describes the presentation file, independent of slide data
type Metadata struct {
	Name         string `json:"name"`
	Size         string `json:"size"`
	LastModified string `json:"lastModified"`
}
