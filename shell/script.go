package shell

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/game"
)

const luaShellGlobal = "reversi_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// pushResult pushes the output of a command, or nil and the error message.
func pushResult(L *lua.LState, cmd string, r *Response, err error) int {
	if err != nil {
		log.Err(err).Str("cmd", cmd).Msg("error-executing-script-command")
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	if r == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Exec(L *lua.LState) int {
	line := L.CheckString(1)
	sc := getShell(L)
	r, err := sc.executeLine(line)
	return pushResult(L, line, r, err)
}

// command makes a Lua function that runs cmd with the string argument
// appended.
func command(cmd string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := strings.TrimSpace(cmd + " " + L.OptString(1, ""))
		sc := getShell(L)
		r, err := sc.executeLine(line)
		return pushResult(L, line, r, err)
	}
}

type gameState struct {
	Turn    int      `json:"turn"`
	OnTurn  string   `json:"on_turn"`
	Playing bool     `json:"playing"`
	Black   int      `json:"black"`
	White   int      `json:"white"`
	Moves   []string `json:"moves"`
	Board   []string `json:"board"`
}

func State(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	g := sc.game
	b := g.Board()
	st := gameState{
		Turn:    g.Turn(),
		OnTurn:  g.OnTurn().String(),
		Playing: g.Playing() == game.Playing,
		Board:   strings.Split(strings.TrimSpace(b.String()), "\n"),
		Moves:   []string{},
	}
	st.Black, st.White = g.Score()
	if st.Playing {
		for _, p := range b.AvailableMoves(g.OnTurn()) {
			st.Moves = append(st.Moves, p.String())
		}
	} else {
		st.OnTurn = board.Empty.String()
	}
	data, err := json.Marshal(st)
	if err != nil {
		L.RaiseError("marshalling state: %v", err)
		return 0
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		L.RaiseError("decoding state: %v", err)
		return 0
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) newLuaState() *lua.LState {
	L := lua.NewState()

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal(luaShellGlobal, lsc)

	L.SetGlobal("reversi_exec", L.NewFunction(Exec))
	L.SetGlobal("reversi_state", L.NewFunction(State))
	for _, cmd := range []string{"new", "play", "aiplay", "set", "load", "save"} {
		L.SetGlobal("reversi_"+cmd, L.NewFunction(command(cmd)))
	}

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{Timeout: 30 * time.Second}).Loader)
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := sc.newLuaState()
	defer L.Close()

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
