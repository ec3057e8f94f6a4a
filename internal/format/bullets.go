// Package format turns free text into ordered slide bullets.
package format

import (
	"strings"

	"slidechat/internal/deck"
)

// Bullets 将自由文本逐行转换为 (标题, 正文) 要点
// Bullets converts raw text into ordered (title, body) records, one per
// non-empty line. A leading run of list markers (digits, '.', '-', '*') is
// stripped. Text before the first colon is the title and the rest is the
// body; without a colon, or with an empty body, the body repeats the title.
// Lines whose title ends up empty are dropped. It never fails.
func Bullets(raw string) []deck.Bullet {
	lines := strings.Split(raw, "\n")
	out := make([]deck.Bullet, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(stripMarkers(strings.TrimSpace(line)))
		if line == "" {
			continue
		}
		title, body, found := strings.Cut(line, ":")
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		body = strings.TrimSpace(body)
		if !found || body == "" {
			body = title
		}
		out = append(out, deck.Bullet{Title: title, Body: body})
	}
	return out
}

// stripMarkers removes the leading run of digits, dots, dashes and asterisks.
func stripMarkers(line string) string {
	return strings.TrimLeftFunc(line, func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '*'
	})
}

// Markdown 将要点渲染回 "* 标题: 正文" 形式；标题不含冒号时 Bullets 可无损读回
// Markdown renders bullets back to "* title: body" lines. Bullets reads them
// back unchanged as long as no title contains a colon; a title with a colon
// is split at its first colon on the way back, as any typed line would be.
func Markdown(bullets []deck.Bullet) string {
	var b strings.Builder
	for _, item := range bullets {
		b.WriteString("* ")
		b.WriteString(item.Title)
		if item.Body != "" && item.Body != item.Title {
			b.WriteString(": ")
			b.WriteString(item.Body)
		}
		b.WriteString("\n")
	}
	return b.String()
}
