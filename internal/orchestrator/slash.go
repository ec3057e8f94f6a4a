package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"slidechat/internal/deck"
	"slidechat/internal/dialogue"
	"slidechat/internal/gateway"
	"slidechat/internal/storage"
)

// parseSlashCommand 解析 "/" 命令：返回 command 与 args（剩余部分）
// parseSlashCommand parses a "/" command: returns command and args (rest of line)
func parseSlashCommand(input string) (command string, args string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return "", "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "/"))
	if rest == "" {
		return "", "", true
	}
	parts := strings.SplitN(rest, " ", 2)
	command = strings.ToLower(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return command, args, true
}

// HelpLines returns the localized command list.
func (o *Orchestrator) HelpLines() []string {
	return []string{
		o.cat.T("help.title"),
		"  " + o.cat.T("help.new"),
		"  " + o.cat.T("help.load"),
		"  " + o.cat.T("help.add"),
		"  " + o.cat.T("help.save"),
		"  " + o.cat.T("help.preview"),
		"  " + o.cat.T("help.draft"),
		"  " + o.cat.T("help.exit"),
	}
}

// runSlashCommand 处理 "/" 内建命令；未知命令返回提示
// runSlashCommand handles "/" built-in commands; unknown command returns a hint
func (o *Orchestrator) runSlashCommand(command, args string) Output {
	var out Output
	switch command {
	case "help", "":
		out.system(strings.Join(o.HelpLines(), "\n"))
	case "new":
		return o.fromStep(o.machine.StartNew())
	case "add":
		layout, err := deck.ParseLayout(args)
		if err != nil {
			out.system(o.cat.T("slide.layout_invalid", args))
			return out
		}
		st, _ := o.machine.AddSlide(layout)
		return o.fromStep(st)
	case "load":
		if args == "" {
			out.system(o.cat.T("repl.usage", "/load <path>"))
			return out
		}
		return o.Load(args)
	case "save":
		return o.Save(args)
	case "preview":
		out.ShowPreview = true
	case "draft":
		return o.runDraftCommand(args)
	case "exit", "quit":
		out.Quit = true
		out.system(o.cat.T("repl.bye"))
	default:
		out.system(o.cat.T("repl.unknown", "/"+command))
	}
	return out
}

// Load 上传本地演示文稿并读取其幻灯片，成功后整体替换会话
// Load uploads a local .ppt/.pptx file and fetches its slides; on success the
// session is replaced. Files with another extension are rejected up front.
func (o *Orchestrator) Load(path string) Output {
	var out Output
	path = strings.TrimSpace(path)
	name := filepath.Base(path)
	if !gateway.ValidPresentationName(name) {
		out.system(o.cat.T("presentation.invalid_file"))
		return out
	}
	gw := o.gateway
	out.Task = func(ctx context.Context) Apply {
		meta, slides, err := uploadAndFetch(ctx, gw, path)
		if err != nil {
			o.log.Warn("load failed", zap.String("path", path), zap.Error(err))
			return func() Output {
				var failed Output
				failed.system(o.cat.T("presentation.load_failed"))
				return failed
			}
		}
		o.log.Info("presentation loaded", zap.String("name", meta.Name), zap.Int("slides", len(slides)))
		return func() Output {
			o.draftID = ""
			return o.fromStep(o.machine.Load(meta, slides))
		}
	}
	return out
}

func uploadAndFetch(ctx context.Context, gw gateway.Gateway, path string) (deck.Metadata, []deck.Slide, error) {
	if gw == nil {
		return deck.Metadata{}, nil, gateway.ErrNotConfigured
	}
	f, err := os.Open(path)
	if err != nil {
		return deck.Metadata{}, nil, fmt.Errorf("open presentation: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return deck.Metadata{}, nil, fmt.Errorf("stat presentation: %w", err)
	}
	name := filepath.Base(path)
	if err := gw.Upload(ctx, name, f); err != nil {
		return deck.Metadata{}, nil, err
	}
	slides, err := gw.FetchSlides(ctx, name)
	if err != nil {
		return deck.Metadata{}, nil, err
	}
	meta := deck.Metadata{
		Name:         name,
		Size:         deck.FormatSize(info.Size()),
		LastModified: deck.FormatTimestamp(info.ModTime()),
	}
	return meta, slides, nil
}

// Save 将会话连同样式偏好发送给网关，并把返回的文档写入 path
// Save sends the session with the stored style preferences to the gateway
// and writes the returned document to path, or to DefaultOutputName in the
// output directory. An empty session is rejected without any call.
func (o *Orchestrator) Save(path string) Output {
	var out Output
	snap, err := o.machine.Save()
	if err != nil {
		out.system(o.cat.T("presentation.nothing"))
		return out
	}
	req := gateway.SaveRequest{Slides: snap.Slides, Filename: snap.Filename}
	if o.store != nil {
		colors, logo, err := storage.LoadPrefs(o.store)
		if err != nil {
			o.log.Warn("load prefs failed", zap.Error(err))
		}
		req.StyleColors, req.LogoSettings = colors, logo
	}
	dest := strings.TrimSpace(path)
	if dest == "" {
		dest = filepath.Join(o.outputDir, DefaultOutputName)
	}

	gw := o.gateway
	out.Task = func(ctx context.Context) Apply {
		err := saveTo(ctx, gw, req, dest)
		if err != nil {
			o.log.Warn("save failed", zap.String("dest", dest), zap.Error(err))
		}
		return func() Output {
			var done Output
			if err != nil {
				done.system(o.cat.T("presentation.save_failed"))
				return done
			}
			done.system(o.cat.T("presentation.saved"))
			done.system(o.cat.T("presentation.saved_to", dest))
			return done
		}
	}
	return out
}

func saveTo(ctx context.Context, gw gateway.Gateway, req gateway.SaveRequest, dest string) error {
	if gw == nil {
		return gateway.ErrNotConfigured
	}
	data, err := gw.Save(ctx, req)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write presentation: %w", err)
	}
	return nil
}

// runDraftCommand handles /draft save | list | open <id> | delete <id>.
func (o *Orchestrator) runDraftCommand(args string) Output {
	var out Output
	if o.store == nil {
		out.system(o.cat.T("draft.failed", "storage unavailable"))
		return out
	}
	sub, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(sub) {
	case "save":
		return o.SaveDraft()
	case "list", "ls":
		out.system(o.RenderDraftList())
	case "open", "resume":
		if rest == "" {
			out.system(o.cat.T("draft.usage"))
			return out
		}
		return o.OpenDraft(rest)
	case "delete", "rm":
		if rest == "" {
			out.system(o.cat.T("draft.usage"))
			return out
		}
		if err := o.store.DeleteDraft(rest); err != nil {
			out.system(o.cat.T("draft.failed", err.Error()))
			return out
		}
		if rest == o.draftID {
			o.draftID = ""
		}
		out.system(o.cat.T("draft.deleted", rest))
	default:
		out.system(o.cat.T("draft.usage"))
	}
	return out
}

// SaveDraft 将当前会话快照保存为草稿；再次保存会覆盖同一草稿
// SaveDraft snapshots the session into the store. Saving again updates the
// same draft until another presentation is loaded or opened.
func (o *Orchestrator) SaveDraft() Output {
	var out Output
	meta, ok := o.Session().Metadata()
	if !ok {
		out.system(o.cat.T("presentation.required"))
		return out
	}
	dm, err := o.store.SaveDraft(o.draftID, meta, o.Session().Slides())
	if err != nil {
		o.log.Warn("save draft failed", zap.Error(err))
		out.system(o.cat.T("draft.failed", err.Error()))
		return out
	}
	o.draftID = dm.ID
	out.system(o.cat.T("draft.saved", dm.ID))
	return out
}

// OpenDraft replaces the session with a stored draft.
func (o *Orchestrator) OpenDraft(id string) Output {
	var out Output
	dm, slides, err := o.store.LoadDraft(id)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			out.system(o.cat.T("draft.failed", err.Error()))
			return out
		}
		o.log.Warn("open draft failed", zap.String("id", id), zap.Error(err))
		out.system(o.cat.T("draft.failed", err.Error()))
		return out
	}
	step := o.machine.Load(dm.Metadata, slides)
	o.draftID = dm.ID
	out = Output{Changed: step.Changed}
	out.system(o.cat.T("draft.opened", dm.Metadata.Name))
	return out
}

const draftNameWidth = 36

// RenderDraftList formats stored drafts, newest first. Names are padded by
// display width so CJK names stay aligned.
func (o *Orchestrator) RenderDraftList() string {
	drafts, err := o.store.ListDrafts()
	if err != nil {
		return o.cat.T("draft.failed", err.Error())
	}
	if len(drafts) == 0 {
		return o.cat.T("draft.none")
	}
	lines := make([]string, 0, len(drafts))
	for _, d := range drafts {
		name := runewidth.FillRight(runewidth.Truncate(d.Metadata.Name, draftNameWidth, "…"), draftNameWidth)
		marker := " "
		if d.ID == o.draftID {
			marker = "*"
		}
		lines = append(lines, marker+" "+o.cat.T("draft.row", d.ID, name, d.SlideCount, d.UpdatedAt))
	}
	return strings.Join(lines, "\n")
}

// Reply roles re-exported for front-ends that only import this package.
const (
	RoleAssistant = dialogue.RoleAssistant
	RoleSystem    = dialogue.RoleSystem
)
