// Package repl is the line-oriented chat front-end.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"slidechat/internal/dialogue"
	"slidechat/internal/orchestrator"
	"slidechat/internal/preview"
)

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[90m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// ErrInterrupt is returned by a LineInput when the user presses Ctrl+C.
var ErrInterrupt = errors.New("interrupt")

// continuation marks a line that continues on the next one.
const continuation = `\`

// Loop holds REPL state: the orchestrator, the input and where output goes.
// Loop 持有 REPL 状态：编排器、输入源与输出目标。
type Loop struct {
	orch  *orchestrator.Orchestrator
	input LineInput
	out   io.Writer
	color bool
	width int
}

// NewLoop builds a REPL loop. color enables ANSI styling of prompts and replies.
func NewLoop(orch *orchestrator.Orchestrator, input LineInput, out io.Writer, color bool) *Loop {
	return &Loop{orch: orch, input: input, out: out, color: color, width: terminalWidth(out)}
}

// Run 读取输入直到 /exit 或 EOF；网关调用同步执行
// Run reads input until /exit or EOF. Gateway calls run synchronously; ctx
// cancels a call in flight, which reports the call as failed and ends the
// loop without an error. A line ending in a backslash continues on the next
// line, so multi-line slide content can be typed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		text, err := l.readMessage()
		if errors.Is(err, ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		out := l.orch.HandleInput(text)
		l.printReplies(out.Replies)
		changed := out.Changed
		for out.Task != nil {
			task := out.Task
			out = task(ctx)()
			l.printReplies(out.Replies)
			changed = changed || out.Changed
		}
		if out.ShowPreview {
			l.printPreview()
		} else if changed {
			l.printSummary()
		}
		if out.Quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(l.out, l.paint(ansiDim, l.orch.Catalog().T("repl.bye")))
				return nil
			}
			return err
		}
	}
}

// printSummary prints one line describing the session after a change.
func (l *Loop) printSummary() {
	meta, ok := l.orch.Session().Metadata()
	if !ok {
		return
	}
	line := l.orch.Catalog().T("repl.changed", meta.Name, l.orch.Session().Len())
	fmt.Fprintln(l.out, l.paint(ansiDim, line))
}

func (l *Loop) readMessage() (string, error) {
	var lines []string
	prompt := l.prompt()
	for {
		line, err := l.input.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		if rest, ok := strings.CutSuffix(line, continuation); ok {
			lines = append(lines, rest)
			prompt = l.paint(ansiDim, "... ")
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}

// prompt shows the active dialogue mode, e.g. "[title(0)] slidechat> ".
func (l *Loop) prompt() string {
	mode := l.orch.Machine().Mode().String()
	return l.paint(ansiGreen, fmt.Sprintf("[%s] slidechat> ", mode))
}

func (l *Loop) printReplies(replies []dialogue.Reply) {
	for _, r := range replies {
		color := ansiCyan
		if r.Role == dialogue.RoleSystem {
			color = ansiYellow
		}
		fmt.Fprintln(l.out, l.paint(color, r.Text))
	}
}

func (l *Loop) printPreview() {
	s := l.orch.Session()
	if l.color {
		fmt.Fprintln(l.out, preview.Render(s, l.orch.Catalog(), l.width))
		return
	}
	fmt.Fprint(l.out, preview.Markdown(s, l.orch.Catalog()))
}

func (l *Loop) paint(color, s string) string {
	if !l.color {
		return s
	}
	return color + s + ansiReset
}

func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// UseColor reports whether ANSI colors should be written to f.
func UseColor(f *os.File) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("SLIDECHAT_NO_COLOR")) != "" {
		return false
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) == "dumb" {
		return false
	}
	return IsTerminal(f)
}
