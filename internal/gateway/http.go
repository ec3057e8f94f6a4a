package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"slidechat/internal/deck"
)

// HTTPClient implements Gateway over the gateway's JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewHTTPClient 创建网关 HTTP 客户端；timeout 为 0 表示不设超时
// NewHTTPClient creates a gateway client. A zero timeout means none.
func NewHTTPClient(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the gateway root the client talks to.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Upload(ctx context.Context, name string, r io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("create upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(req, "upload")
	return err
}

func (c *HTTPClient) FetchSlides(ctx context.Context, filename string) ([]deck.Slide, error) {
	data, err := c.postJSON(ctx, "/api/get-slides", "get slides", map[string]string{"filename": filename})
	if err != nil {
		return nil, err
	}
	var body slidesBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse get slides response: %w", err)
	}
	return decodeSlides(body.Slides)
}

func (c *HTTPClient) GenerateContent(ctx context.Context, title string) (string, error) {
	data, err := c.postJSON(ctx, "/api/generate-content", "generate content", map[string]string{"title": title})
	if err != nil {
		return "", err
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("parse generate content response: %w", err)
	}
	return body.Content, nil
}

func (c *HTTPClient) GeneratePresentation(ctx context.Context, content string, tier deck.Tier) ([]deck.Slide, error) {
	payload := map[string]string{"content": content, "slideCount": string(tier)}
	data, err := c.postJSON(ctx, "/api/generate-presentation", "generate presentation", payload)
	if err != nil {
		return nil, err
	}
	var body slidesBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse generate presentation response: %w", err)
	}
	return decodeSlides(body.Slides)
}

func (c *HTTPClient) Save(ctx context.Context, sr SaveRequest) ([]byte, error) {
	if sr.Slides == nil {
		sr.Slides = []deck.Slide{}
	}
	return c.postJSON(ctx, "/api/save-presentation", "save presentation", sr)
}

func (c *HTTPClient) postJSON(ctx context.Context, path, op string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op)
}

func (c *HTTPClient) do(req *http.Request, op string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("gateway call failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("send %s request: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}
	c.log.Debug("gateway call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: errorMessage(data)}
	}
	return data, nil
}

// errorMessage prefers the "error" field of a JSON error body.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
