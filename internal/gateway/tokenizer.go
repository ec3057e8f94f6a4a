package gateway

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer 精确 token 计数器，支持 tiktoken 和启发式回退
// Tokenizer counts and truncates by tokens with tiktoken, falling back to a
// heuristic when the encoding cannot be loaded.
type Tokenizer struct {
	encoder      *tiktoken.Tiktoken
	encodingName string
	fallback     bool
	mu           sync.Mutex
}

// NewTokenizer 创建 tokenizer，如果 tiktoken 初始化失败则回退到启发式
// NewTokenizer creates a tokenizer, falls back to heuristic if tiktoken init fails
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{encodingName: encodingName}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存 / Offline environments may lack the BPE cache
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// NewTokenizerForModel picks the encoding from the model name.
func NewTokenizerForModel(model string) *Tokenizer {
	return NewTokenizer(modelToEncoding(model))
}

// IsPrecise reports whether tiktoken is in use.
func (t *Tokenizer) IsPrecise() bool { return !t.fallback }

// CountText returns the token count of text.
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// Truncate 截断文本到 limit 个 token 以内；limit <= 0 表示不限制
// Truncate cuts text to at most limit tokens. limit <= 0 disables it.
func (t *Tokenizer) Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	if t.fallback {
		return truncateHeuristic(text, limit)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tokens := t.encoder.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return strings.ToValidUTF8(t.encoder.Decode(tokens[:limit]), "")
}

func truncateHeuristic(text string, limit int) string {
	if heuristicTokenCount(text) <= limit {
		return text
	}
	var b strings.Builder
	budget := 0.0
	for _, r := range text {
		cost := 0.25
		if isCJK(r) {
			cost = 1.5
		}
		if budget+cost > float64(limit) {
			break
		}
		budget += cost
		b.WriteRune(r)
	}
	return b.String()
}

// heuristicTokenCount CJK 约 1.5 token/字，其余约 4 字符/token
// heuristicTokenCount estimates ~1.5 tokens per CJK rune and ~4 chars per
// token otherwise.
func heuristicTokenCount(text string) int {
	if text == "" {
		return 0
	}
	cjk, other := 0, 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	estimate := int(float64(cjk)*1.5 + float64(other)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x3000 && r <= 0x303F) || // CJK Symbols
		(r >= 0xFF00 && r <= 0xFFEF) || // Fullwidth Forms
		(r >= 0xAC00 && r <= 0xD7AF) // Korean Hangul
}

func modelToEncoding(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "gpt-4o"), strings.HasPrefix(m, "chatgpt-4o"):
		return "o200k_base"
	default:
		return "cl100k_base"
	}
}
