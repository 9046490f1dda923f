package repl

import (
	"github.com/chzyer/readline"
)

// commands are the REPL meta commands offered for completion
var commands = []string{":run", ":check", ":show", ":undo", ":clear", ":warnings", ":help", ":quit"}

// NewKeywordCompleter completes statement keywords and REPL commands at
// the start of a line
func NewKeywordCompleter(keywords []string) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(keywords)+len(commands))
	for _, kw := range keywords {
		switch kw {
		case "LOOP":
			items = append(items, readline.PcItem("LOOP", readline.PcItem("AT")))
		case "WHEN":
			items = append(items, readline.PcItem("WHEN", readline.PcItem("OTHERS")))
		default:
			items = append(items, readline.PcItem(kw))
		}
	}
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}
