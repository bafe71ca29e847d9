// Package shell is an interactive Othello console: play against the engine,
// save and load games, run autoplay matches and Lua scripts.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/automatic"
	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/config"
	"github.com/othello-go/reversi/game"
	"github.com/othello-go/reversi/player"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with new")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string

	game       *game.Game
	runner     *automatic.GameRunner
	humanColor board.Color
	human      *player.Scripted
	engine     *player.Engine
	names      [2]string

	mu             sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := newController(cfg, execPath, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mreversi>\033[0m ",
		HistoryFile:     "/tmp/reversi-readline.tmp",
		AutoComplete:    NewShellCompleter(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func newController(cfg *config.Config, execPath string, out io.Writer) *ShellController {
	return &ShellController{
		config:     cfg,
		execPath:   execPath,
		out:        out,
		humanColor: board.Black,
	}
}

// extractFields splits a command line into the command, its positional
// arguments and its -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if _, err := strconv.ParseFloat(f, 64); err != nil {
				// an option; it needs a value.
				if idx == len(fields)-1 {
					return nil, errWrongOptionSyntax
				}
				key := f[1:]
				options[key] = append(options[key], fields[idx+1])
				idx++
				continue
			}
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "aiplay", "ai":
		return sc.aiplay(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// executeLine runs one line and returns its output.
func (sc *ShellController) executeLine(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	return sc.handle(cmd)
}

// Execute runs a single command line, e.g. one passed to the binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.executeLine(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	// a command-line autoplay runs to completion.
	sc.waitAutoplay()
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.executeLine(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops a running autoplay.
func (sc *ShellController) Cleanup() {
	sc.mu.Lock()
	cancel := sc.autoplayCancel
	sc.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	sc.waitAutoplay()
}
