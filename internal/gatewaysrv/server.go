// Package gatewaysrv is a development Generation Gateway: the five JSON
// routes the client calls, backed by local files and an OpenAI generator.
package gatewaysrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"slidechat/internal/deck"
	"slidechat/internal/gateway"
	"slidechat/internal/prefs"
)

const (
	maxUploadBytes = 64 << 20
	maxJSONBytes   = 16 << 20

	// OutputName is the file every save writes.
	OutputName = "presentation_edited.json"
	// DefaultFilename is used when a save request names no file.
	DefaultFilename = "presentation.pptx"
)

// Generator produces slide content; *gateway.OpenAIGenerator satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, title string) (string, error)
	GeneratePresentation(ctx context.Context, content string, tier deck.Tier) ([]deck.Slide, error)
}

// Server 开发用生成网关
// Server handles the gateway routes. A nil generator makes both generate
// routes answer 500 with "OpenAI API key not configured".
type Server struct {
	uploadDir string
	gen       Generator
	log       *zap.Logger
}

// New creates a Server storing uploads and saved documents under uploadDir.
func New(uploadDir string, gen Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{uploadDir: uploadDir, gen: gen, log: log}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	// 路由注册在根路由上，方法不匹配时返回 405 / Root-level routes so a wrong method gets 405
	r := mux.NewRouter()
	r.HandleFunc("/api/upload", s.Upload).Methods(http.MethodPost)
	r.HandleFunc("/api/get-slides", s.GetSlides).Methods(http.MethodPost)
	r.HandleFunc("/api/generate-content", s.GenerateContent).Methods(http.MethodPost)
	r.HandleFunc("/api/generate-presentation", s.GeneratePresentation).Methods(http.MethodPost)
	r.HandleFunc("/api/save-presentation", s.SavePresentation).Methods(http.MethodPost)
	return r
}

// Document 保存接口写出的 JSON 文档
// Document is what a save writes: the slides plus everything a renderer needs
// to draw them. TitleSlide is set when the deck did not start from an upload;
// otherwise slides before NewFrom already exist in BasedOn.
type Document struct {
	Filename   string             `json:"filename"`
	BasedOn    string             `json:"basedOn,omitempty"`
	NewFrom    int                `json:"newFrom"`
	TitleSlide *TitleSlide        `json:"titleSlide,omitempty"`
	Palette    prefs.Palette      `json:"palette"`
	Logo       prefs.LogoSettings `json:"logo"`
	Slides     []deck.Slide       `json:"slides"`
}

type TitleSlide struct {
	Title     string `json:"title"`
	Presenter string `json:"presenter"`
}

// Upload stores a .ppt/.pptx file from the multipart field "file".
// POST /api/upload
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	name := filepath.Base(strings.TrimSpace(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	if !gateway.ValidPresentationName(name) {
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.fail(w, "upload", err, "Failed to store file")
		return
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		s.fail(w, "upload", err, "Failed to store file")
		return
	}
	_, copyErr := io.Copy(dst, file)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		s.fail(w, "upload", err, "Failed to store file")
		return
	}
	s.log.Info("file uploaded", zap.String("filename", name))
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully",
		"filename": name,
	})
}

// GetSlides returns the slides last saved for an uploaded file. Slides are
// read from the sidecar a save writes; extracting them from the binary file
// is not supported.
// POST /api/get-slides
func (s *Server) GetSlides(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, "No filename provided")
		return
	}
	name := filepath.Base(strings.TrimSpace(req.Filename))
	if _, err := os.Stat(filepath.Join(s.uploadDir, name)); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	data, err := os.ReadFile(s.sidecarPath(name))
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotImplemented, "Slide extraction is not available for this file")
		return
	}
	if err != nil {
		s.fail(w, "get slides", err, "Failed to read slides")
		return
	}
	slides, err := gateway.DecodeSlides(data)
	if err != nil {
		s.fail(w, "get slides", err, "Failed to read slides")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slides": slides})
}

// GenerateContent POST /api/generate-content
func (s *Server) GenerateContent(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		writeError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	content, err := s.gen.GenerateContent(r.Context(), req.Title)
	if err != nil {
		s.fail(w, "generate content", err, "Failed to generate content")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// GeneratePresentation POST /api/generate-presentation
// An unknown slideCount falls back to brief.
func (s *Server) GeneratePresentation(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		writeError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}
	var req struct {
		Content    string `json:"content"`
		SlideCount string `json:"slideCount"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	tier, ok := deck.ParseTier(req.SlideCount)
	if !ok {
		tier = deck.TierBrief
	}
	slides, err := s.gen.GeneratePresentation(r.Context(), req.Content, tier)
	if err != nil {
		s.fail(w, "generate presentation", err, "Failed to generate presentation: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slides": slides})
}

// SavePresentation builds the document, writes it and its sidecar, and
// returns the document as an attachment. When the named file was uploaded,
// slides it already holds are carried over and only the rest are new.
// POST /api/save-presentation
func (s *Server) SavePresentation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slides       json.RawMessage    `json:"slides"`
		Filename     string             `json:"filename"`
		StyleColors  prefs.StyleColors  `json:"styleColors"`
		LogoSettings prefs.LogoSettings `json:"logoSettings"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	slides := []deck.Slide{}
	if len(req.Slides) > 0 && string(req.Slides) != "null" {
		var err error
		if slides, err = gateway.DecodeSlides(req.Slides); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid slides")
			return
		}
	}
	name := filepath.Base(strings.TrimSpace(req.Filename))
	if name == "" || name == "." {
		name = DefaultFilename
	}

	doc := Document{
		Filename: name,
		Palette:  req.StyleColors.Palette(),
		Logo:     req.LogoSettings,
		Slides:   slides,
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, name)); err == nil {
		doc.BasedOn = name
		doc.NewFrom = min(s.existingSlides(name), len(slides))
	} else {
		doc.TitleSlide = &TitleSlide{
			Title:     titleCase(strings.TrimSuffix(name, ".pptx")),
			Presenter: "Presenter",
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.fail(w, "save presentation", err, "Failed to save presentation: "+err.Error())
		return
	}
	if err := s.writeOutputs(name, data, slides); err != nil {
		s.fail(w, "save presentation", err, "Failed to save presentation: "+err.Error())
		return
	}
	s.log.Info("presentation saved", zap.String("filename", name), zap.Int("slides", len(slides)))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", OutputName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeOutputs(name string, doc []byte, slides []deck.Slide) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, OutputName), doc, 0o644); err != nil {
		return err
	}
	sidecar, err := json.Marshal(slides)
	if err != nil {
		return err
	}
	return os.WriteFile(s.sidecarPath(name), sidecar, 0o644)
}

// existingSlides counts the slides recorded for an uploaded file.
func (s *Server) existingSlides(name string) int {
	data, err := os.ReadFile(s.sidecarPath(name))
	if err != nil {
		return 0
	}
	var slides []json.RawMessage
	if err := json.Unmarshal(data, &slides); err != nil {
		return 0
	}
	return len(slides)
}

func (s *Server) sidecarPath(name string) string {
	return filepath.Join(s.uploadDir, name+".slides.json")
}

func (s *Server) fail(w http.ResponseWriter, op string, err error, msg string) {
	s.log.Error("gateway route failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// titleCase upper-cases the first letter of every word and lowers the rest.
func titleCase(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		defer func() { prev = r }()
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == '\'' {
			return unicode.ToLower(r)
		}
		return unicode.ToTitle(r)
	}, s)
}
