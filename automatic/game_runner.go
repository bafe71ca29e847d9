// Package automatic plays computer-vs-computer Othello games, logs every
// move and keeps the results for later analysis.
package automatic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/evaluator"
	"github.com/othello-go/reversi/game"
	"github.com/othello-go/reversi/player"
	"github.com/othello-go/reversi/search"
)

const (
	EnginePlayer = "engine"
	RandomPlayer = "random"
)

// MoveLogHeader is the header of the per-move CSV log.
const MoveLogHeader = "gameID,turn,player,color,move,black,white,depth,nodes\n"

// PlayerSpec describes one side of a match: "random", "engine",
// "engine:<depth>" or "engine:<depth>:jitter".
type PlayerSpec struct {
	Kind   string
	Depth  int
	Jitter bool
}

func ParsePlayerSpec(s string) (PlayerSpec, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	ps := PlayerSpec{Kind: parts[0]}
	switch ps.Kind {
	case RandomPlayer:
		if len(parts) > 1 {
			return ps, fmt.Errorf("random player takes no options: %q", s)
		}
		return ps, nil
	case EnginePlayer:
	default:
		return ps, fmt.Errorf("unknown player kind %q", parts[0])
	}
	if len(parts) > 1 {
		d, err := strconv.Atoi(parts[1])
		if err != nil || d < 1 {
			return ps, fmt.Errorf("bad engine depth in %q", s)
		}
		ps.Depth = d
	}
	if len(parts) > 2 {
		if parts[2] != "jitter" || len(parts) > 3 {
			return ps, fmt.Errorf("bad engine options in %q", s)
		}
		ps.Jitter = true
	}
	return ps, nil
}

func (ps PlayerSpec) String() string {
	if ps.Kind != EnginePlayer || ps.Depth == 0 {
		return ps.Kind
	}
	s := fmt.Sprintf("%s:%d", ps.Kind, ps.Depth)
	if ps.Jitter {
		s += ":jitter"
	}
	return s
}

// NewPlayer builds a player for color c. seed drives the random mover and
// the evaluator jitter; evalOpts and searchOpts are the common settings of
// every engine.
func (ps PlayerSpec) NewPlayer(name string, c board.Color, seed uint64,
	evalOpts []evaluator.Option, searchOpts []search.Option) player.Player {

	if ps.Kind == RandomPlayer {
		return player.NewRandom(c, seed)
	}
	eo := append([]evaluator.Option{}, evalOpts...)
	if ps.Jitter {
		eo = append(eo, evaluator.WithJitter(seed))
	}
	so := append([]search.Option{}, searchOpts...)
	so = append(so, search.WithEvaluator(evaluator.New(eo...)))
	if ps.Depth > 0 {
		so = append(so, search.WithMaxDepth(ps.Depth))
	}
	return player.NewEngine(name, search.NewSolver(c, so...))
}

// GameRunner plays a single game between two players.
type GameRunner struct {
	game    *game.Game
	gameID  string
	players [2]player.Player
	logchan chan string
}

// NewGameRunner sets up a game from the initial position. logchan may be
// nil; otherwise every move is sent to it as a CSV line.
func NewGameRunner(logchan chan string, black, white player.Player) (*GameRunner, error) {
	return NewGameRunnerFrom(game.NewGame(), logchan, black, white)
}

// NewGameRunnerFrom continues g, e.g. a game replayed from a record.
func NewGameRunnerFrom(g *game.Game, logchan chan string, black, white player.Player) (*GameRunner, error) {
	if black.Color() != board.Black || white.Color() != board.White {
		return nil, fmt.Errorf("players have colors %v and %v, want black and white",
			black.Color(), white.Color())
	}
	return &GameRunner{
		game:    g,
		gameID:  uuid.NewString(),
		players: [2]player.Player{black, white},
		logchan: logchan,
	}, nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

func (r *GameRunner) GameID() string {
	return r.gameID
}

// PlayerFor returns the player of color c.
func (r *GameRunner) PlayerFor(c board.Color) player.Player {
	if c == board.White {
		return r.players[1]
	}
	return r.players[0]
}

// PlayTurn asks the player on turn for a move and plays it.
func (r *GameRunner) PlayTurn(ctx context.Context) error {
	g := r.game
	turn := g.Turn()
	c := g.OnTurn()
	p := r.PlayerFor(c)
	m, err := p.ChooseMove(ctx, g.Board(), turn)
	if err != nil {
		return fmt.Errorf("turn %d (%s): %w", turn, p.Name(), err)
	}
	if err := g.Play(m); err != nil {
		return fmt.Errorf("turn %d (%s): %w", turn, p.Name(), err)
	}
	if r.logchan != nil {
		var depth int
		var nodes uint64
		if e, ok := p.(*player.Engine); ok {
			st := e.Solver().Stats()
			depth, nodes = st.Depth, st.Nodes
		}
		black, white := g.Score()
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v\n",
			r.gameID, turn, p.Name(), c, m, black, white, depth, nodes)
	}
	return nil
}

// PlayFull plays until the game is over or ctx is done.
func (r *GameRunner) PlayFull(ctx context.Context) error {
	for r.game.Playing() == game.Playing {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.PlayTurn(ctx); err != nil {
			return err
		}
	}
	black, white := r.game.Score()
	log.Debug().Str("game-id", r.gameID).Int("black", black).Int("white", white).
		Msg("game-over")
	return nil
}
