package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"slidechat/internal/deck"
)

const (
	contentMaxTokens      = 150
	presentationMaxTokens = 1000
	defaultModel          = "gpt-3.5-turbo"
)

const (
	contentSystemPrompt = "You are a helpful assistant that creates concise bullet points for presentations. " +
		"Each bullet point should have a short title and brief content (maximum 2 lines) separated by a colon. " +
		"Never generate more than 5 bullet points."
	contentUserPrompt = "Create 3-5 brief bullet points for a presentation about: %s. " +
		"Format each point as 'Title: Content'. Keep content concise and to the point."
	presentationSystemPrompt = "You are a presentation content generator. Create structured content for slides " +
		"based on the given topic. Each slide should have a title and 3-5 bullet points. " +
		"Format each point as 'Title: Content'. Start every slide with a line 'Slide N: <title>'."
	presentationUserPrompt = "Create content for a %s presentation about: %s. " +
		"Include %d-%d slides with 3-5 bullet points each."
)

// GeneratorConfig OpenAI 兼容接口配置
// GeneratorConfig configures the OpenAI-compatible generator.
type GeneratorConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	TimeoutMS int
	// ContentTokenLimit caps the freeform content sent for a presentation.
	ContentTokenLimit int
}

// OpenAIGenerator 直接调用 OpenAI 兼容接口生成内容
// OpenAIGenerator produces slide content straight from an OpenAI-compatible
// chat completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	limit  int
	log    *zap.Logger

	tokOnce sync.Once
	tok     *Tokenizer
}

// NewOpenAIGenerator creates a generator. It fails with ErrNotConfigured
// when no API key is set.
func NewOpenAIGenerator(cfg GeneratorConfig, log *zap.Logger) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not configured", ErrNotConfigured)
	}
	if log == nil {
		log = zap.NewNop()
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	config.HTTPClient = httpClient

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		limit:  cfg.ContentTokenLimit,
		log:    log,
	}, nil
}

// Model returns the chat model in use.
func (g *OpenAIGenerator) Model() string { return g.model }

// GenerateContent returns raw "Title: Content" lines for one slide.
func (g *OpenAIGenerator) GenerateContent(ctx context.Context, title string) (string, error) {
	return g.complete(ctx, "generate content", contentMaxTokens,
		contentSystemPrompt, fmt.Sprintf(contentUserPrompt, title))
}

// GeneratePresentation 生成整份演示文稿并解析为幻灯片
// GeneratePresentation asks for a whole deck and parses it into slides.
func (g *OpenAIGenerator) GeneratePresentation(ctx context.Context, content string, tier deck.Tier) ([]deck.Slide, error) {
	if tier == "" {
		tier = deck.TierBrief
	}
	tok := g.tokenizer()
	content = tok.Truncate(content, g.limit)
	g.log.Debug("presentation prompt",
		zap.String("model", g.model),
		zap.Int("content_tokens", tok.CountText(content)),
		zap.Bool("precise", tok.IsPrecise()))
	lo, hi := tier.SlideRange()
	text, err := g.complete(ctx, "generate presentation", presentationMaxTokens,
		presentationSystemPrompt, fmt.Sprintf(presentationUserPrompt, tier, content, lo, hi))
	if err != nil {
		return nil, err
	}
	slides := ParseGenerated(text)
	g.log.Info("presentation generated", zap.String("tier", string(tier)), zap.Int("slides", len(slides)))
	return slides, nil
}

func (g *OpenAIGenerator) tokenizer() *Tokenizer {
	g.tokOnce.Do(func() {
		if g.limit <= 0 {
			g.tok = &Tokenizer{fallback: true}
			return
		}
		g.tok = NewTokenizerForModel(g.model)
		if !g.tok.IsPrecise() {
			g.log.Info("tiktoken unavailable, using heuristic token budget")
		}
	})
	return g.tok
}

func (g *OpenAIGenerator) complete(ctx context.Context, op string, maxTokens int, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		g.log.Warn("completion failed", zap.String("op", op), zap.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", op)
	}
	return resp.Choices[0].Message.Content, nil
}

// Direct 上传/读取/保存走网关，生成直接调用模型
// Direct routes upload, fetch and save to the gateway and runs the two
// generation calls against the model directly.
type Direct struct {
	*HTTPClient
	Generator *OpenAIGenerator
}

var _ Gateway = (*Direct)(nil)

func (d *Direct) GenerateContent(ctx context.Context, title string) (string, error) {
	return d.Generator.GenerateContent(ctx, title)
}

func (d *Direct) GeneratePresentation(ctx context.Context, content string, tier deck.Tier) ([]deck.Slide, error) {
	return d.Generator.GeneratePresentation(ctx, content, tier)
}
