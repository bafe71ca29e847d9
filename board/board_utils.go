package board

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadPosition = errors.New("bad position")

func (c Color) symbol() byte {
	switch c {
	case Black:
		return 'X'
	case White:
		return 'O'
	}
	return '.'
}

// String returns the board as 8 lines of '.', 'X' (black) and 'O' (white).
// Parse reads the same format.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			sb.WriteByte(b[r][col].symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads a board written by String. Whitespace and blank lines are
// ignored, so boards can be written as indented raw strings in tests.
func Parse(s string) (Board, error) {
	var b Board
	var cells []byte
	for _, ch := range []byte(s) {
		switch ch {
		case ' ', '\t', '\n', '\r':
			continue
		}
		cells = append(cells, ch)
	}
	if len(cells) != Size*Size {
		return b, fmt.Errorf("board text has %d squares, want %d", len(cells), Size*Size)
	}
	for i, ch := range cells {
		switch ch {
		case '.', '-', '_':
		case 'X', 'x', 'B', 'b':
			b[i/Size][i%Size] = Black
		case 'O', 'o', 'W', 'w':
			b[i/Size][i%Size] = White
		default:
			return b, fmt.Errorf("unexpected character %q in board text", ch)
		}
	}
	return b, nil
}

// MustParse is Parse for tests and fixed boards; it panics on error.
func MustParse(s string) Board {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ParsePos parses an algebraic square name like "d3".
func ParsePos(s string) (Pos, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Pos{}, fmt.Errorf("%w: %q", ErrBadPosition, s)
	}
	p := Pos{Col: int(s[0] - 'a'), Row: int(s[1] - '1')}
	if !p.OnBoard() {
		return Pos{}, fmt.Errorf("%w: %q", ErrBadPosition, s)
	}
	return p, nil
}

// ToDisplayText renders the board with coordinates, for the shell.
func (b *Board) ToDisplayText() string {
	var str string
	row := "   "
	for i := 0; i < Size; i++ {
		row = row + fmt.Sprintf("%c", 'a'+i) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", Size*2) + "\n"
	for i := 0; i < Size; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < Size; j++ {
			row = row + string(b[i][j].symbol()) + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", Size*2) + "\n"
	str = str + fmt.Sprintf("   X: %d  O: %d\n", b.CountStones(Black), b.CountStones(White))
	return "\n" + str
}
