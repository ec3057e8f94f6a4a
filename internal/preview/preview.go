// Package preview renders the presentation session for display.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"slidechat/internal/deck"
	"slidechat/internal/format"
	"slidechat/internal/i18n"
)

// Markdown 将会话渲染为 markdown 文本；cat 为 nil 时使用全局目录
// Markdown renders the session as markdown: a metadata line, then one
// section per slide with its layout and bullets. The slide being edited is
// marked. cat defaults to the global catalog.
func Markdown(s *deck.Session, cat *i18n.I18n) string {
	if cat == nil {
		cat = i18n.Global()
	}
	meta, ok := s.Metadata()
	if !ok {
		return "_" + cat.T("preview.empty") + "_\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.Name)
	fmt.Fprintf(&b, "_%s · %s_\n\n", meta.Size, meta.LastModified)

	slides := s.Slides()
	if len(slides) == 0 {
		b.WriteString(cat.T("preview.no_slides"))
		b.WriteString("\n")
		return b.String()
	}
	current := s.Current()
	for _, sl := range slides {
		title := sl.Title
		if strings.TrimSpace(title) == "" {
			title = cat.T("preview.untitled")
		}
		marker := ""
		if sl.Index == current {
			marker = " ◀"
		}
		fmt.Fprintf(&b, "## %s: %s%s\n\n", cat.T("preview.slide", sl.Index+1), title, marker)
		fmt.Fprintf(&b, "`%s`\n\n", sl.Layout)
		if body := format.Markdown(sl.Content); body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render renders the session preview for a terminal of the given width.
func Render(s *deck.Session, cat *i18n.I18n, width int) string {
	return RenderMarkdown(Markdown(s, cat), width)
}

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour, returning the input
// unchanged when rendering fails.
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}
