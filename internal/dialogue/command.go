package dialogue

import (
	"strings"

	"slidechat/internal/deck"
)

// Command is a reserved word the wizard recognizes in specific modes.
type Command string

const (
	CmdYes      Command = "yes"
	CmdNo       Command = "no"
	CmdBrief    Command = "brief"
	CmdExpanded Command = "expanded"
	CmdDetailed Command = "detailed"
	CmdAI       Command = "ai"
	CmdManual   Command = "manual"
)

var commands = []Command{CmdYes, CmdNo, CmdBrief, CmdExpanded, CmdDetailed, CmdAI, CmdManual}

// ParseCommand 大小写不敏感地匹配保留词；不是保留词时返回 false
// ParseCommand matches a reserved word case-insensitively after trimming.
func ParseCommand(msg string) (Command, bool) {
	s := strings.ToLower(strings.TrimSpace(msg))
	for _, c := range commands {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Tier maps the tier commands to deck.Tier.
func (c Command) Tier() (deck.Tier, bool) {
	return deck.ParseTier(string(c))
}
