package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"slidechat/internal/dialogue"
	"slidechat/internal/gateway"
	"slidechat/internal/i18n"
	"slidechat/internal/storage"
)

// DefaultOutputName is the file /save writes when no path is given.
const DefaultOutputName = "presentation_edited.pptx"

type Options struct {
	Gateway   gateway.Gateway
	Store     storage.Store // optional: preferences and drafts
	Catalog   *i18n.I18n
	Log       *zap.Logger
	OutputDir string // directory for /save without a path
	Clock     func() time.Time
}

// Output 一次输入或一次任务完成后的结果
// Output is what one input (or one finished task) produced for the front-end.
type Output struct {
	Replies []dialogue.Reply
	// Changed reports that the session was mutated and the preview is stale.
	Changed bool
	// ShowPreview asks the front-end to display the preview now.
	ShowPreview bool
	Quit        bool
	// Task is gateway I/O still to run. Front-ends run it off the owner
	// goroutine and call the returned Apply on the owner goroutine.
	Task Task
}

// Task 在后台执行的网关调用；返回的 Apply 必须在状态机所属协程上执行
// Task performs gateway I/O. It must not touch the session; the Apply it
// returns does that and must run where the Orchestrator is owned.
type Task func(ctx context.Context) Apply

// Apply folds a task's outcome back into the session.
type Apply func() Output

func (o *Output) say(role dialogue.Role, text string) {
	o.Replies = append(o.Replies, dialogue.Reply{Role: role, Text: text})
}

func (o *Output) system(text string) { o.say(dialogue.RoleSystem, text) }

func (o *Output) merge(next Output) {
	o.Replies = append(o.Replies, next.Replies...)
	o.Changed = o.Changed || next.Changed
	o.ShowPreview = o.ShowPreview || next.ShowPreview
	o.Quit = o.Quit || next.Quit
	o.Task = next.Task
}
