// Package prefs holds the style and logo preferences merged into every save.
package prefs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Preference keys in the key-value store.
const (
	KeyStyleColors  = "styleColors"
	KeyLogoSettings = "logoSettings"
)

// StyleColors 样式颜色；每个颜色同时保存十六进制值与 "r,g,b" 文本
// StyleColors keeps each color as a hex value plus its "r,g,b" text mirror.
type StyleColors struct {
	ContentTextColor    string `json:"contentTextColor,omitempty"`
	ContentTextColorRGB string `json:"contentTextColorRGB,omitempty"`
	HighlightColor      string `json:"highlightColor,omitempty"`
	HighlightColorRGB   string `json:"highlightColorRGB,omitempty"`
	FormsBgColor        string `json:"formsBgColor,omitempty"`
	FormsBgColorRGB     string `json:"formsBgColorRGB,omitempty"`
}

// NewStyleColors builds StyleColors from three hex colors, filling the RGB
// mirrors. Empty inputs are left unset.
func NewStyleColors(contentText, highlight, formsBg string) (StyleColors, error) {
	var sc StyleColors
	var err error
	if sc.ContentTextColor, sc.ContentTextColorRGB, err = hexPair(contentText); err != nil {
		return StyleColors{}, fmt.Errorf("content text color: %w", err)
	}
	if sc.HighlightColor, sc.HighlightColorRGB, err = hexPair(highlight); err != nil {
		return StyleColors{}, fmt.Errorf("highlight color: %w", err)
	}
	if sc.FormsBgColor, sc.FormsBgColorRGB, err = hexPair(formsBg); err != nil {
		return StyleColors{}, fmt.Errorf("forms background color: %w", err)
	}
	return sc, nil
}

func hexPair(hex string) (string, string, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return "", "", nil
	}
	rgb, err := HexToRGB(hex)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return strings.ToLower(hex), rgb, nil
}

// RGB is a color triple.
type RGB [3]int

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

// Default colors used when a preference is missing or unparsable.
var (
	DefaultContentText = RGB{34, 34, 34}
	DefaultHighlight   = RGB{220, 53, 69}
	DefaultFormsBg     = RGB{244, 246, 251}
)

// Palette is the resolved set of colors a renderer uses.
type Palette struct {
	ContentText RGB `json:"contentText"`
	Highlight   RGB `json:"highlight"`
	FormsBg     RGB `json:"formsBg"`
}

// Palette 解析 RGB 文本，无法解析的字段使用默认色
// Palette resolves the RGB mirrors, using the defaults for anything unset.
func (c StyleColors) Palette() Palette {
	return Palette{
		ContentText: ParseRGB(c.ContentTextColorRGB, DefaultContentText),
		Highlight:   ParseRGB(c.HighlightColorRGB, DefaultHighlight),
		FormsBg:     ParseRGB(c.FormsBgColorRGB, DefaultFormsBg),
	}
}

var ErrBadColor = errors.New("invalid color")

// HexToRGB converts "#rgb" or "#rrggbb" to "r,g,b".
func HexToRGB(hex string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	return RGB{int(n>>16) & 255, int(n>>8) & 255, int(n) & 255}.String(), nil
}

var rgbSep = regexp.MustCompile(`[, ]+`)

// ParseRGB parses "r,g,b" (commas and/or spaces). Anything other than exactly
// three integers yields fallback.
func ParseRGB(s string, fallback RGB) RGB {
	var out RGB
	n := 0
	for _, part := range rgbSep.Split(strings.TrimSpace(s), -1) {
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || n == 3 {
			return fallback
		}
		out[n] = v
		n++
	}
	if n != 3 {
		return fallback
	}
	return out
}

// LogoPosition is the corner a logo is drawn in.
type LogoPosition string

const (
	LogoTopLeft     LogoPosition = "top-left"
	LogoTopRight    LogoPosition = "top-right"
	LogoBottomLeft  LogoPosition = "bottom-left"
	LogoBottomRight LogoPosition = "bottom-right"
)

// LogoPositions lists the corners in menu order.
var LogoPositions = []LogoPosition{LogoTopLeft, LogoTopRight, LogoBottomLeft, LogoBottomRight}

// ParseLogoPosition matches a corner name case-insensitively.
func ParseLogoPosition(s string) (LogoPosition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range LogoPositions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown logo position %q", s)
}

// LogoSettings 图片 data URL 与位置
// LogoSettings carries the logo image as a data URL and its corner.
type LogoSettings struct {
	LogoDataURL  string       `json:"logoDataUrl,omitempty"`
	LogoPosition LogoPosition `json:"logoPosition,omitempty"`
}

var ErrNotImage = errors.New("logo is not an image")

// DataURL 根据内容检测 MIME 类型并生成 data URL；非图片返回 ErrNotImage
// DataURL encodes an image as a data URL, detecting the MIME type from the
// content. Non-image payloads are rejected with ErrNotImage.
func DataURL(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	mime, _, _ := strings.Cut(mt.String(), ";")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// LoadLogoFile reads an image file and returns its data URL.
func LoadLogoFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	return DataURL(data)
}
