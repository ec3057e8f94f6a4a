// Package orchestrator drives a presentation chat: it feeds user input to
// the dialogue machine, runs the gateway calls the machine asks for, and
// implements the slash commands shared by the REPL and the TUI.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"slidechat/internal/deck"
	"slidechat/internal/dialogue"
	"slidechat/internal/gateway"
	"slidechat/internal/i18n"
	"slidechat/internal/storage"
)

type Orchestrator struct {
	machine   *dialogue.Machine
	gateway   gateway.Gateway
	store     storage.Store
	cat       *i18n.I18n
	log       *zap.Logger
	outputDir string
	draftID   string // draft the session was last saved to or opened from
}

func New(opts Options) *Orchestrator {
	cat := opts.Catalog
	if cat == nil {
		cat = i18n.Global()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	machineOpts := []dialogue.Option{dialogue.WithCatalog(cat)}
	if opts.Clock != nil {
		machineOpts = append(machineOpts, dialogue.WithClock(opts.Clock))
	}
	return &Orchestrator{
		machine:   dialogue.New(deck.NewSession(), machineOpts...),
		gateway:   opts.Gateway,
		store:     opts.Store,
		cat:       cat,
		log:       log,
		outputDir: strings.TrimSpace(opts.OutputDir),
	}
}

// Machine returns the dialogue machine.
func (o *Orchestrator) Machine() *dialogue.Machine { return o.machine }

// Session returns the presentation session.
func (o *Orchestrator) Session() *deck.Session { return o.machine.Session() }

// Catalog returns the message catalog in use.
func (o *Orchestrator) Catalog() *i18n.I18n { return o.cat }

// HandleInput 处理一行输入：斜杠命令或对话消息；网关调用以 Task 形式返回
// HandleInput processes one line: a slash command or a chat message. Any
// gateway call comes back as Output.Task; nothing blocks here except local
// storage.
func (o *Orchestrator) HandleInput(input string) Output {
	if command, args, ok := parseSlashCommand(input); ok {
		return o.runSlashCommand(command, args)
	}
	return o.fromStep(o.machine.Handle(input))
}

// RunInput handles input and runs every resulting task synchronously.
func (o *Orchestrator) RunInput(ctx context.Context, input string) Output {
	return o.Drain(ctx, o.HandleInput(input))
}

// Drain runs out.Task and any task that follows it, merging the results.
func (o *Orchestrator) Drain(ctx context.Context, out Output) Output {
	for out.Task != nil {
		task := out.Task
		out.Task = nil
		out.merge(task(ctx)())
	}
	return out
}

// fromStep converts a machine step, turning its request into a task.
func (o *Orchestrator) fromStep(st dialogue.Step) Output {
	out := Output{Replies: st.Replies, Changed: st.Changed}
	if st.Request != nil {
		out.Task = o.requestTask(st.Request)
	}
	return out
}

// requestTask runs req against the gateway. Its Apply hands the result to
// the machine, which drops it when the dialogue moved on meanwhile.
func (o *Orchestrator) requestTask(req *dialogue.Request) Task {
	gw := o.gateway
	log := o.log
	return func(ctx context.Context) Apply {
		start := time.Now()
		res := execute(ctx, gw, req)
		if res.Err != nil {
			log.Warn("generation failed",
				zap.String("request", req.ID),
				zap.String("kind", string(req.Kind)),
				zap.Error(res.Err))
		} else {
			log.Info("generation done",
				zap.String("request", req.ID),
				zap.String("kind", string(req.Kind)),
				zap.Duration("elapsed", time.Since(start)))
		}
		return func() Output {
			st := o.machine.Complete(req, res)
			if st.Stale {
				log.Info("stale result dropped", zap.String("request", req.ID), zap.Stringer("mode", req.Mode))
			}
			return o.fromStep(st)
		}
	}
}

func execute(ctx context.Context, gw gateway.Gateway, req *dialogue.Request) dialogue.Result {
	if gw == nil {
		return dialogue.Result{Err: gateway.ErrNotConfigured}
	}
	switch req.Kind {
	case dialogue.RequestPresentation:
		slides, err := gw.GeneratePresentation(ctx, req.Content, req.Tier)
		return dialogue.Result{Slides: slides, Err: err}
	case dialogue.RequestContent:
		content, err := gw.GenerateContent(ctx, req.Title)
		return dialogue.Result{Content: content, Err: err}
	}
	return dialogue.Result{Err: gateway.ErrNotConfigured}
}
