// Package dialogue implements the guided-input wizard that turns chat
// messages into presentation edits.
package dialogue

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"slidechat/internal/deck"
	"slidechat/internal/format"
	"slidechat/internal/i18n"
)

var (
	ErrNoPresentation = deck.ErrNoPresentation
	ErrNothingToSave  = errors.New("nothing to save")
)

// Role 消息角色：助手提示或系统通知
// Role distinguishes assistant prompts from system notices.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Reply is one message the wizard shows to the user.
type Reply struct {
	Role Role
	Text string
}

// RequestKind names the gateway call a transition needs.
type RequestKind string

const (
	RequestPresentation RequestKind = "generate-presentation"
	RequestContent      RequestKind = "generate-content"
)

// Request 需要网关完成的调用；记录发出时的模式与 epoch
// Request is a gateway call issued by a transition. Mode and Epoch are
// captured at send time so a late result can be recognized and dropped.
type Request struct {
	ID      string
	Kind    RequestKind
	Mode    Mode
	Epoch   uint64
	Title   string
	Content string
	Tier    deck.Tier
}

// Result is the outcome of a Request. Content is used by RequestContent,
// Slides by RequestPresentation.
type Result struct {
	Content string
	Slides  []deck.Slide
	Err     error
}

// Step is what one input produced.
type Step struct {
	Replies []Reply
	// Request is non-nil when the caller must run a gateway call and hand
	// the outcome back through Complete.
	Request *Request
	// Changed reports that the session was mutated and the preview is stale.
	Changed bool
	// Stale is set by Complete when the result was discarded.
	Stale bool
}

func (s *Step) say(role Role, text string) {
	s.Replies = append(s.Replies, Reply{Role: role, Text: text})
}

// SaveRequest is the session snapshot a save sends to the gateway.
type SaveRequest struct {
	Filename string
	Slides   []deck.Slide
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the time source used for new presentation names.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithCatalog sets the message catalog; the global catalog is the default.
func WithCatalog(c *i18n.I18n) Option {
	return func(m *Machine) { m.cat = c }
}

// Machine 对话状态机；同一时刻只有一个模式生效
// Machine is the dialogue state machine. Exactly one Mode is active at a
// time and every mode change bumps the epoch. A Machine is not safe for
// concurrent use; front-ends serialize calls.
type Machine struct {
	session *deck.Session
	mode    Mode
	tier    deck.Tier
	epoch   uint64
	pending *Request
	now     func() time.Time
	cat     *i18n.I18n
}

// New creates a machine driving the given session.
func New(session *deck.Session, opts ...Option) *Machine {
	if session == nil {
		session = deck.NewSession()
	}
	m := &Machine{
		session: session,
		mode:    Mode{Kind: ModeNone, Slide: deck.NoSlide},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cat == nil {
		m.cat = i18n.Global()
	}
	return m
}

// Session returns the session the machine mutates.
func (m *Machine) Session() *deck.Session { return m.session }

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// Tier returns the tier remembered from the slide-count prompt.
func (m *Machine) Tier() deck.Tier { return m.tier }

// Pending reports whether a gateway call is outstanding.
func (m *Machine) Pending() bool { return m.pending != nil }

func (m *Machine) setMode(kind ModeKind, slide int) {
	if !kind.PerSlide() {
		slide = deck.NoSlide
	}
	m.mode = Mode{Kind: kind, Slide: slide}
	m.epoch++
	m.pending = nil
}

func (m *Machine) issue(kind RequestKind) *Request {
	req := &Request{
		ID:    uuid.NewString(),
		Kind:  kind,
		Mode:  m.mode,
		Epoch: m.epoch,
	}
	m.pending = req
	return req
}

// StartNew 开始新建演示文稿流程
// StartNew begins the new-presentation flow, preempting whatever was pending.
func (m *Machine) StartNew() Step {
	m.setMode(ModeDraftConfirmation, deck.NoSlide)
	var st Step
	st.say(RoleAssistant, m.cat.T("wizard.draft_prompt"))
	return st
}

// AddSlide 追加幻灯片并进入内容选择模式；没有演示文稿时拒绝且不修改状态
// AddSlide appends an empty slide and enters CONTENT_CHOICE for it. Without
// a presentation it returns ErrNoPresentation and leaves everything as is.
func (m *Machine) AddSlide(layout deck.LayoutType) (Step, error) {
	var st Step
	idx, err := m.session.Append(layout)
	if err != nil {
		st.say(RoleSystem, m.cat.T("presentation.required"))
		return st, err
	}
	m.setMode(ModeContentChoice, idx)
	st.Changed = true
	st.say(RoleSystem, m.cat.T("slide.choice_prompt"))
	st.say(RoleSystem, m.cat.T("slide.choice_options"))
	return st, nil
}

// Load 整体替换会话并回到空闲模式
// Load replaces the session with a loaded presentation and resets the mode.
func (m *Machine) Load(meta deck.Metadata, slides []deck.Slide) Step {
	m.session.Replace(meta, slides)
	m.setMode(ModeNone, deck.NoSlide)
	var st Step
	st.Changed = true
	st.say(RoleSystem, m.cat.T("presentation.loaded", meta.Name))
	return st
}

// Save returns the snapshot to send to the gateway. It fails with
// ErrNothingToSave when there is no presentation or it has no slides.
func (m *Machine) Save() (SaveRequest, error) {
	meta, ok := m.session.Metadata()
	if !ok || m.session.Len() == 0 {
		return SaveRequest{}, ErrNothingToSave
	}
	return SaveRequest{Filename: meta.Name, Slides: m.session.Slides()}, nil
}

// Handle 在当前模式下解释一条用户消息；每条消息只由一个模式处理
// Handle interprets one user message under the active mode. Draft-flow modes
// and per-slide modes share the single Mode value, so a message is never
// seen by two modes.
func (m *Machine) Handle(msg string) Step {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Step{}
	}
	switch m.mode.Kind {
	case ModeDraftConfirmation:
		return m.handleDraftConfirmation(msg)
	case ModeSlideCountTier:
		return m.handleTier(msg)
	case ModeFreeformContent:
		return m.handleFreeform(msg)
	case ModeContentChoice:
		return m.handleContentChoice(msg)
	case ModeAITitle:
		return m.handleAITitle(msg)
	case ModeTitle:
		return m.handleTitle(msg)
	case ModeContent:
		return m.handleContent(msg)
	}
	var st Step
	if m.pending != nil {
		st.say(RoleSystem, m.cat.T("dialogue.busy"))
		return st
	}
	st.say(RoleSystem, m.cat.T("dialogue.idle"))
	return st
}

func (m *Machine) handleDraftConfirmation(msg string) Step {
	var st Step
	cmd, _ := ParseCommand(msg)
	switch cmd {
	case CmdYes:
		m.setMode(ModeSlideCountTier, deck.NoSlide)
		st.say(RoleAssistant, m.cat.T("wizard.tier_prompt"))
	case CmdNo:
		m.session.Replace(deck.NewMetadata(m.now()), nil)
		m.setMode(ModeNone, deck.NoSlide)
		st.Changed = true
		st.say(RoleAssistant, m.cat.T("wizard.empty_created"))
	default:
		st.say(RoleAssistant, m.cat.T("wizard.yes_no"))
	}
	return st
}

func (m *Machine) handleTier(msg string) Step {
	var st Step
	tier, ok := deck.ParseTier(msg)
	if !ok {
		st.say(RoleAssistant, m.cat.T("wizard.tier_invalid"))
		return st
	}
	m.tier = tier
	m.setMode(ModeFreeformContent, deck.NoSlide)
	st.say(RoleAssistant, m.cat.T("wizard.content_prompt"))
	return st
}

func (m *Machine) handleFreeform(msg string) Step {
	var st Step
	m.setMode(ModeNone, deck.NoSlide)
	req := m.issue(RequestPresentation)
	req.Content = msg
	req.Tier = m.tier
	st.Request = req
	lo, hi := m.tier.SlideRange()
	st.say(RoleAssistant, m.cat.T("wizard.generating", m.tier, lo, hi))
	return st
}

func (m *Machine) handleContentChoice(msg string) Step {
	var st Step
	cmd, _ := ParseCommand(msg)
	switch cmd {
	case CmdAI:
		m.setMode(ModeAITitle, m.mode.Slide)
		st.say(RoleSystem, m.cat.T("slide.ai_title_prompt"))
	case CmdManual:
		m.setMode(ModeTitle, m.mode.Slide)
		st.say(RoleSystem, m.cat.T("slide.title_prompt"))
	default:
		st.say(RoleSystem, m.cat.T("slide.choice_invalid"))
	}
	return st
}

func (m *Machine) handleAITitle(msg string) Step {
	var st Step
	if m.pending != nil {
		st.say(RoleSystem, m.cat.T("dialogue.busy"))
		return st
	}
	req := m.issue(RequestContent)
	req.Title = msg
	st.Request = req
	st.say(RoleSystem, m.cat.T("slide.generating", msg))
	return st
}

func (m *Machine) handleTitle(msg string) Step {
	var st Step
	if err := m.session.SetTitle(m.mode.Slide, msg); err != nil {
		m.setMode(ModeNone, deck.NoSlide)
		st.say(RoleSystem, m.cat.T("presentation.required"))
		return st
	}
	m.setMode(ModeContent, m.mode.Slide)
	st.Changed = true
	st.say(RoleSystem, m.cat.T("slide.content_prompt"))
	st.say(RoleSystem, m.cat.T("slide.content_example"))
	return st
}

func (m *Machine) handleContent(msg string) Step {
	var st Step
	err := m.session.SetContent(m.mode.Slide, format.Bullets(msg))
	m.setMode(ModeNone, deck.NoSlide)
	if err != nil {
		st.say(RoleSystem, m.cat.T("presentation.required"))
		return st
	}
	st.Changed = true
	st.say(RoleSystem, m.cat.T("slide.created"))
	return st
}

// Complete 应用网关结果；若发出请求后模式已变化则丢弃结果，不做任何修改
// Complete applies the outcome of req. The result is discarded without
// touching the session when req is no longer the outstanding request, that
// is when the machine changed mode (or epoch) after it was issued.
func (m *Machine) Complete(req *Request, res Result) Step {
	var st Step
	if req == nil || req != m.pending || req.Epoch != m.epoch {
		st.Stale = true
		st.say(RoleSystem, m.cat.T("dialogue.stale"))
		return st
	}
	m.pending = nil

	switch req.Kind {
	case RequestPresentation:
		if res.Err != nil {
			st.say(RoleAssistant, m.cat.T("wizard.presentation_failed"))
			return st
		}
		m.session.Replace(deck.NewMetadata(m.now()), res.Slides)
		m.setMode(ModeNone, deck.NoSlide)
		st.Changed = true
		st.say(RoleAssistant, m.cat.T("wizard.presentation_created", m.session.Len()))

	case RequestContent:
		i := req.Mode.Slide
		if res.Err != nil {
			m.setMode(ModeContentChoice, i)
			st.say(RoleSystem, m.cat.T("slide.ai_failed"))
			return st
		}
		if err := m.session.SetTitle(i, req.Title); err != nil {
			m.setMode(ModeNone, deck.NoSlide)
			st.Stale = true
			st.say(RoleSystem, m.cat.T("dialogue.stale"))
			return st
		}
		_ = m.session.SetContent(i, format.Bullets(res.Content))
		m.setMode(ModeNone, deck.NoSlide)
		st.Changed = true
		st.say(RoleSystem, m.cat.T("slide.ai_created"))
	}
	return st
}
