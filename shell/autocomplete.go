package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/othello-go/reversi/board"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Args: []string{"black", "white"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-p1", "-p2", "-log", "-db", "-seeds"},
		Args:    []string{"stop"},
	},
	"set": {
		Args: settable,
	},
	"help": {
		Args: []string{"autoplay", "script", "set"},
	},
}

var commandNames = []string{
	"new", "show", "moves", "play", "aiplay", "set", "setconfig", "save",
	"load", "autoplay", "script", "help", "exit",
}

var playerSpecs = []string{"random", "engine", "engine:4", "engine:6", "engine:6:jitter"}

var squares = func() []string {
	var out []string
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			out = append(out, board.Pos{Col: col, Row: row}.String())
		}
	}
	return out
}()

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-p1" || lastCompleteField == "-p2":
			completions = playerSpecs
		case cmdName == "play":
			completions = squares
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
