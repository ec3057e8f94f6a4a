package gateway

import (
	"strings"

	"slidechat/internal/deck"
	"slidechat/internal/format"
)

// ParseGenerated 将模型输出按行分组为幻灯片
// ParseGenerated groups model output into slides. A line starting with
// "Slide" or "#" opens a new slide and becomes its title; "title: body"
// lines become bullets of the open slide, list markers stripped. Other lines are ignored, and a
// slide without a title is dropped.
func ParseGenerated(text string) []deck.Slide {
	var (
		slides  []deck.Slide
		current *deck.Slide
	)
	flush := func() {
		if current != nil && current.Title != "" {
			current.Index = len(slides)
			slides = append(slides, *current)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Slide") || strings.HasPrefix(line, "#") {
			flush()
			current = &deck.Slide{Title: line, Content: []deck.Bullet{}, Layout: deck.LayoutBoxes}
			continue
		}
		if !strings.Contains(line, ":") {
			continue
		}
		if current == nil {
			current = &deck.Slide{Content: []deck.Bullet{}, Layout: deck.LayoutBoxes}
		}
		current.Content = append(current.Content, format.Bullets(line)...)
	}
	flush()
	if slides == nil {
		slides = []deck.Slide{}
	}
	return slides
}
