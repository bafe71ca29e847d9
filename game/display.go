package game

import (
	"fmt"
	"strings"

	"github.com/othello-go/reversi/board"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

func (g *Game) playerLine(c board.Color) string {
	onturn := ""
	if g.playing == Playing && g.OnTurn() == c {
		onturn = "-> "
	}
	sym := "X"
	if c == board.White {
		sym = "O"
	}
	return fmt.Sprintf("%4v%6v (%v) %3v", onturn, c, sym, g.board.CountStones(c))
}

// ToDisplayText turns the current state of the game into a displayable
// string: the board with the players, the turn and the last moves beside it.
func (g *Game) ToDisplayText() string {
	bt := g.board.ToDisplayText()
	bts := strings.Split(bt, "\n")
	hpadding := 3
	vpadding := 3

	addText(bts, vpadding, hpadding, g.playerLine(board.Black))
	addText(bts, vpadding+1, hpadding, g.playerLine(board.White))
	addText(bts, vpadding+3, hpadding, fmt.Sprintf("Turn %d", g.turn))

	var last []string
	for i := max(0, len(g.history)-4); i < len(g.history); i++ {
		evt := g.history[i]
		last = append(last, fmt.Sprintf("%d.%s", evt.Turn, evt))
	}
	if len(last) > 0 {
		addText(bts, vpadding+4, hpadding, "Last: "+strings.Join(last, " "))
	}
	if g.playing == GameOver {
		winner := g.Winner()
		result := "Tie game"
		if winner != board.Empty {
			result = fmt.Sprintf("%v wins", winner)
		}
		addText(bts, vpadding+6, hpadding, "Game over. "+result)
	}
	return strings.Join(bts, "\n")
}
