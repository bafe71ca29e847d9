// Package record saves and loads games as YAML documents.
package record

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/othello-go/reversi/board"
	"github.com/othello-go/reversi/game"
)

const passMove = "pass"

var ErrBadRecord = errors.New("bad game record")

// GameRecord is the on-disk form of a game. Moves are algebraic squares
// ("d3") or "pass", one per turn.
type GameRecord struct {
	Black string `yaml:"black"`
	White string `yaml:"white"`
	// Set only for games that did not start from the initial position.
	StartPosition string   `yaml:"start_position,omitempty"`
	StartTurn     int      `yaml:"start_turn,omitempty"`
	Moves         []string `yaml:"moves"`
	Result        *Result  `yaml:"result,omitempty"`
}

type Result struct {
	BlackStones int    `yaml:"black_stones"`
	WhiteStones int    `yaml:"white_stones"`
	Winner      string `yaml:"winner"`
}

// FromGame builds a record of g. The result is filled in only when the game
// is over.
func FromGame(g *game.Game, blackName, whiteName string) *GameRecord {
	r := &GameRecord{Black: blackName, White: whiteName}
	start, turn := g.Start()
	if start != board.New() || turn != 1 {
		r.StartPosition = start.String()
		r.StartTurn = turn
	}
	for _, evt := range g.History() {
		r.Moves = append(r.Moves, evt.String())
	}
	if g.Playing() == game.GameOver {
		black, white := g.Score()
		winner := "tie"
		if w := g.Winner(); w != board.Empty {
			winner = w.String()
		}
		r.Result = &Result{BlackStones: black, WhiteStones: white, Winner: winner}
	}
	return r
}

// Replay rebuilds the game described by the record.
func (r *GameRecord) Replay() (*game.Game, error) {
	g := game.NewGame()
	if r.StartPosition != "" {
		b, err := board.Parse(r.StartPosition)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
		}
		g = game.NewFromBoard(b, r.StartTurn)
	}
	for i, mv := range r.Moves {
		if mv == passMove {
			// passes are forced, so the game has already made this one.
			h := g.History()
			if i >= len(h) || !h[i].Pass {
				return nil, fmt.Errorf("%w: move %d is a pass that was not forced", ErrBadRecord, i+1)
			}
			continue
		}
		p, err := board.ParsePos(mv)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
		if err := g.Play(p); err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
	}
	return g, nil
}

func Write(w io.Writer, r *GameRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func Read(rd io.Reader) (*GameRecord, error) {
	r := &GameRecord{}
	if err := yaml.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	return r, nil
}

// Save writes the record to path.
func Save(path string, r *GameRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, r)
}

// Load reads a record from path.
func Load(path string) (*GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
