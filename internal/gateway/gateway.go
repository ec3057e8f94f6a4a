// Package gateway talks to the Generation Gateway: the service that parses
// uploaded presentations, generates slide content and serializes documents.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"slidechat/internal/deck"
	"slidechat/internal/format"
	"slidechat/internal/prefs"
)

// Gateway 生成网关的客户端接口
// Gateway is the client view of the Generation Gateway. Implementations do
// not retry; a failed call is reported to the caller as is.
type Gateway interface {
	Upload(ctx context.Context, name string, r io.Reader) error
	FetchSlides(ctx context.Context, filename string) ([]deck.Slide, error)
	GenerateContent(ctx context.Context, title string) (string, error)
	GeneratePresentation(ctx context.Context, content string, tier deck.Tier) ([]deck.Slide, error)
	Save(ctx context.Context, req SaveRequest) ([]byte, error)
}

// SaveRequest is the body of a save call.
type SaveRequest struct {
	Slides       []deck.Slide       `json:"slides"`
	Filename     string             `json:"filename"`
	StyleColors  prefs.StyleColors  `json:"styleColors"`
	LogoSettings prefs.LogoSettings `json:"logoSettings"`
}

var ErrNotConfigured = errors.New("generator not configured")

// StatusError 网关返回的非 2xx 响应
// StatusError is a non-2xx gateway response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status=%d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: status=%d body=%s", e.Op, e.Code, e.Body)
}

// ValidPresentationName reports whether name has a .ppt or .pptx extension.
func ValidPresentationName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".ppt") || strings.HasSuffix(lower, ".pptx")
}

type wireSlide struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
	Layout  string          `json:"layoutType"`
}

type slidesBody struct {
	Slides []wireSlide `json:"slides"`
}

// DecodeSlides parses a JSON array of wire slides, accepting the same
// content shapes as gateway responses.
func DecodeSlides(data []byte) ([]deck.Slide, error) {
	var in []wireSlide
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	return decodeSlides(in)
}

// decodeSlides 转换网关返回的幻灯片；content 可为字符串或数组
// decodeSlides converts gateway slides. Content may be a newline-joined
// string, an array of strings, or an array of {title, content} objects.
func decodeSlides(in []wireSlide) ([]deck.Slide, error) {
	out := make([]deck.Slide, 0, len(in))
	for i, ws := range in {
		content, err := decodeContent(ws.Content)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		layout, err := deck.ParseLayout(ws.Layout)
		if err != nil {
			layout = deck.LayoutBoxes
		}
		out = append(out, deck.Slide{
			Title:   strings.TrimSpace(ws.Title),
			Content: content,
			Layout:  layout,
			Index:   i,
		})
	}
	return out, nil
}

func decodeContent(raw json.RawMessage) ([]deck.Bullet, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return []deck.Bullet{}, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		return format.Bullets(s), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		out := make([]deck.Bullet, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				out = append(out, format.Bullets(s)...)
				continue
			}
			var b deck.Bullet
			if err := json.Unmarshal(item, &b); err != nil {
				return nil, fmt.Errorf("decode bullet: %w", err)
			}
			b.Title = strings.TrimSpace(b.Title)
			b.Body = strings.TrimSpace(b.Body)
			if b.Title == "" && b.Body == "" {
				continue
			}
			if b.Body == "" {
				b.Body = b.Title
			}
			out = append(out, b)
		}
		return out, nil
	}
	return nil, fmt.Errorf("decode content: unexpected %q", string(raw[:1]))
}
