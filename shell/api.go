package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/othello-go/reversi/automatic"
	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/config"
	"github.com/othello-go/reversi/game"
	"github.com/othello-go/reversi/player"
	"github.com/othello-go/reversi/record"
	"github.com/othello-go/reversi/search"
)

const humanName = "you"

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

// settable are the config keys that `set` changes for this session only.
var settable = []string{
	config.ConfigSearchDepth,
	config.ConfigStartDepth,
	config.ConfigOrderingPlies,
	config.ConfigAspirationThreshold,
	config.ConfigWeightPositional,
	config.ConfigWeightStability,
	config.ConfigWeightMobility,
	config.ConfigEvalJitter,
	config.ConfigSeed,
	config.ConfigMaxTime,
	config.ConfigEngineColor,
}

// seat puts the human and a freshly configured engine at g. Human moves
// reach the game through a scripted player fed by play and aiplay.
func (sc *ShellController) seat(g *game.Game) error {
	engine := player.NewEngine("", search.NewSolver(sc.humanColor.Opposite(), sc.config.SearchOptions()...))
	human := player.NewScripted(humanName, sc.humanColor)
	var black, white player.Player = human, engine
	if sc.humanColor == board.White {
		black, white = engine, human
	}
	runner, err := automatic.NewGameRunnerFrom(g, nil, black, white)
	if err != nil {
		return err
	}
	sc.game = g
	sc.runner = runner
	sc.engine = engine
	sc.human = human
	sc.names = [2]string{black.Name(), white.Name()}
	return nil
}

// humanMove plays p for the human through the game runner. The scripted
// player pops p even when it is illegal, so nothing stays queued.
func (sc *ShellController) humanMove(p board.Pos) error {
	sc.human.Push(p)
	return sc.runner.PlayTurn(context.Background())
}

// lastMove is the stone placed on turn, if any.
func lastMove(g *game.Game, turn int) (board.Pos, bool) {
	for _, evt := range g.History() {
		if evt.Turn == turn && !evt.Pass {
			return evt.Pos, true
		}
	}
	return board.Pos{}, false
}

// engineReply lets the engine move for as long as it is on turn.
func (sc *ShellController) engineReply() (*Response, error) {
	var out strings.Builder
	g := sc.game
	for g.Playing() == game.Playing && g.OnTurn() == sc.engine.Color() {
		turn := g.Turn()
		if err := sc.runner.PlayTurn(context.Background()); err != nil {
			return nil, err
		}
		m, _ := lastMove(g, turn)
		st := sc.engine.Solver().Stats()
		fmt.Fprintf(&out, "%v plays %v (depth %d, value %.2f, %d nodes)\n",
			sc.engine.Name(), m, st.Depth, st.Value, st.Nodes)
	}
	out.WriteString(g.ToDisplayText())
	return msg(out.String()), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		c, err := board.ColorFromString(strings.ToLower(cmd.args[0]))
		if err != nil {
			return nil, err
		}
		sc.humanColor = c
	} else {
		ec, err := sc.config.EngineColor()
		if err != nil {
			return nil, err
		}
		sc.humanColor = ec.Opposite()
	}
	if err := sc.seat(game.NewGame()); err != nil {
		return nil, err
	}
	log.Debug().Str("human", sc.humanColor.String()).Str("engine", sc.engine.Name()).
		Msg("new-game")
	return sc.engineReply()
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

// moves lists the legal moves of the side on turn, best static value first.
func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	b := sc.game.Board()
	c := sc.game.OnTurn()
	eval := sc.engine.Solver().Evaluator()
	type row struct {
		pos   board.Pos
		value float64
	}
	rows := lo.Map(b.AvailableMoves(c), func(p board.Pos, _ int) row {
		nb := b.ApplyMove(p, c)
		return row{pos: p, value: eval.Evaluate(&nb, c)}
	})
	slices.SortStableFunc(rows, func(a, b row) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		}
		return 0
	})
	var out strings.Builder
	fmt.Fprintf(&out, "%d moves for %v:\n", len(rows), c)
	for _, r := range rows {
		fmt.Fprintf(&out, "%4v %8.2f\n", r.pos, r.value)
	}
	return msg(out.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <square>, e.g. play d3")
	}
	if sc.game.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	if sc.game.OnTurn() != sc.humanColor {
		return nil, fmt.Errorf("it is %v's turn", sc.game.OnTurn())
	}
	p, err := board.ParsePos(strings.ToLower(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	if err := sc.humanMove(p); err != nil {
		return nil, err
	}
	return sc.engineReply()
}

// aiplay lets the engine choose the human's move.
func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	g := sc.game
	if g.Playing() == game.GameOver {
		return nil, game.ErrGameOver
	}
	if g.OnTurn() != sc.humanColor {
		return nil, fmt.Errorf("it is %v's turn", g.OnTurn())
	}
	solver := search.NewSolver(g.OnTurn(), sc.config.SearchOptions()...)
	m, err := solver.ChooseMove(context.Background(), g.Board(), g.Turn())
	if err != nil {
		return nil, err
	}
	if err := sc.humanMove(m); err != nil {
		return nil, err
	}
	resp, err := sc.engineReply()
	if err != nil {
		return nil, err
	}
	resp.message = fmt.Sprintf("played %v (%v)\n", m, solver.Stats()) + resp.message
	return resp, nil
}

func (sc *ShellController) showSettings() string {
	var out strings.Builder
	out.WriteString("Settings:\n")
	for _, key := range settable {
		out.WriteString("  " + key + ": " + sc.config.GetString(key) + "\n")
	}
	return out.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.showSettings()), nil
	}
	key := cmd.args[0]
	if !slices.Contains(settable, key) {
		return nil, fmt.Errorf("no such setting: %v", key)
	}
	if len(cmd.args) == 1 {
		return msg(sc.config.GetString(key)), nil
	}
	value := cmd.args[1]
	if key == config.ConfigEngineColor {
		if _, err := board.ColorFromString(value); err != nil {
			return nil, err
		}
	}
	sc.config.Set(key, value)
	// the engine of a running game picks up its new settings.
	if sc.game != nil && key != config.ConfigEngineColor {
		if err := sc.seat(sc.game); err != nil {
			return nil, err
		}
	}
	return msg("set " + key + " to " + value), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil || len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}

	key := cmd.args[0]
	value := cmd.args[1]

	sc.config.Set(key, value)

	err := sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	r := record.FromGame(sc.game, sc.names[0], sc.names[1])
	if err := record.Save(cmd.args[0], r); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("saved %d moves to %v", len(r.Moves), cmd.args[0])), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	r, err := record.Load(cmd.args[0])
	if err != nil {
		return nil, err
	}
	g, err := r.Replay()
	if err != nil {
		return nil, err
	}
	if err := sc.seat(g); err != nil {
		return nil, err
	}
	if r.Black != "" && r.White != "" {
		sc.names = [2]string{r.Black, r.White}
	}
	return sc.engineReply()
}

func (sc *ShellController) autoplaying() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.autoplayDone != nil
}

func (sc *ShellController) waitAutoplay() {
	sc.mu.Lock()
	done := sc.autoplayDone
	sc.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (sc *ShellController) matchConfig(options CmdOptions) (automatic.MatchConfig, error) {
	mc := automatic.MatchConfig{
		LogFile:          sc.config.GetString(config.ConfigAutoplayLog),
		DBPath:           sc.config.GetString(config.ConfigAutoplayDB),
		EvaluatorOptions: sc.config.EvaluatorOptions(),
		SearchOptions:    sc.config.SearchOptions(),
	}
	var err error
	if mc.NumGames, err = options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames)); err != nil {
		return mc, err
	}
	if mc.Threads, err = options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads)); err != nil {
		return mc, err
	}
	p1, p2 := options.String("p1"), options.String("p2")
	if p1 == "" {
		p1 = automatic.EnginePlayer
	}
	if p2 == "" {
		p2 = automatic.RandomPlayer
	}
	if mc.Player1, err = automatic.ParsePlayerSpec(p1); err != nil {
		return mc, err
	}
	if mc.Player2, err = automatic.ParsePlayerSpec(p2); err != nil {
		return mc, err
	}
	if f, ok := options["log"]; ok {
		mc.LogFile = f[0]
	}
	if f, ok := options["db"]; ok {
		mc.DBPath = f[0]
	}
	if f := options.String("seeds"); f != "" {
		if mc.Seeds, err = automatic.LoadSeeds(f); err != nil {
			return mc, err
		}
	} else if mc.LogFile != "" {
		// keep the seeds next to the log so the match can be replayed.
		mc.Seeds = automatic.GenerateSeeds(mc.NumGames)
		if err := automatic.SaveSeeds(mc.Seeds, mc.LogFile+".seeds"); err != nil {
			return mc, err
		}
	}
	return mc, nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		sc.mu.Lock()
		cancel := sc.autoplayCancel
		sc.mu.Unlock()
		if cancel == nil {
			return nil, errors.New("autoplay is not running")
		}
		cancel()
		return msg("stopping autoplay"), nil
	}
	if sc.autoplaying() {
		return nil, automatic.ErrAlreadyPlaying
	}
	mc, err := sc.matchConfig(cmd.options)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.mu.Lock()
	sc.autoplayCancel = cancel
	sc.autoplayDone = done
	sc.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		summary, err := automatic.PlayMatch(ctx, mc)
		if err != nil && !errors.Is(err, context.Canceled) {
			sc.showError(err)
		}
		if summary != nil {
			sc.showMessage(summary.String())
		}
		sc.mu.Lock()
		sc.autoplayCancel = nil
		sc.autoplayDone = nil
		sc.mu.Unlock()
	}()
	return msg(fmt.Sprintf("autoplay started: %d games, %v vs %v on %d threads",
		mc.NumGames, mc.Player1, mc.Player2, max(1, mc.Threads))), nil
}
