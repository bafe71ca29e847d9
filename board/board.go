package board

import (
	"fmt"
)

// Size is the number of rows (and columns) on an Othello board.
const Size = 8

// NumDirections is the number of rays scanned from a square.
const NumDirections = 8

// Color is the content of a single square.
type Color int8

const (
	Empty Color = iota
	Black
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Empty:
		return "empty"
	}
	return fmt.Sprintf("color(%d)", int8(c))
}

// Opposite returns the other stone color. It must never be called with Empty.
func (c Color) Opposite() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	panic(violation("opposite of %v", c))
}

// Valid reports whether c is a stone color.
func (c Color) Valid() bool {
	return c == Black || c == White
}

// ColorFromString parses "black"/"b"/"x" and "white"/"w"/"o".
func ColorFromString(s string) (Color, error) {
	switch s {
	case "black", "b", "x", "X", "B", "Black":
		return Black, nil
	case "white", "w", "o", "O", "W", "White":
		return White, nil
	}
	return Empty, fmt.Errorf("unknown color %q", s)
}

// Pos is a square on the board. Col and Row are in [0, Size).
type Pos struct {
	Col int
	Row int
}

// OnBoard reports whether p is inside the board.
func (p Pos) OnBoard() bool {
	return p.Col >= 0 && p.Col < Size && p.Row >= 0 && p.Row < Size
}

// String returns the algebraic name of the square, e.g. Pos{2, 3} is c4.
func (p Pos) String() string {
	if !p.OnBoard() {
		return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// Runs holds the stones captured by a move, one list per direction.
type Runs [NumDirections][]Pos

// Len returns the total number of captured stones.
func (r Runs) Len() int {
	n := 0
	for _, run := range r {
		n += len(run)
	}
	return n
}

// Empty reports whether no direction captures anything.
func (r Runs) Empty() bool {
	for _, run := range r {
		if len(run) > 0 {
			return false
		}
	}
	return true
}

// directions in scan order: NW, N, NE, W, E, SW, S, SE.
var directions = [NumDirections][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Board is an 8x8 grid indexed [row][col]. It is a value: assigning a
// Board copies all of its squares.
type Board [Size][Size]Color

// New returns the initial position.
func New() Board {
	var b Board
	b[3][3] = Black
	b[3][4] = White
	b[4][3] = White
	b[4][4] = Black
	return b
}

// FromGrid builds a board from an externally supplied grid, indexed
// [row][col].
func FromGrid(grid [][]Color) (Board, error) {
	var b Board
	if len(grid) != Size {
		return b, violation("grid has %d rows, want %d", len(grid), Size)
	}
	for r, row := range grid {
		if len(row) != Size {
			return b, violation("grid row %d has %d columns, want %d", r, len(row), Size)
		}
		for c, color := range row {
			if color != Empty && !color.Valid() {
				return b, violation("grid square (%d,%d) has invalid color %d", c, r, color)
			}
			b[r][c] = color
		}
	}
	return b, nil
}

// At returns the color at p.
func (b *Board) At(p Pos) Color {
	checkPos(p)
	return b[p.Row][p.Col]
}

// Set places c at p.
func (b *Board) Set(p Pos, c Color) {
	checkPos(p)
	b[p.Row][p.Col] = c
}

// CountStones returns the number of squares holding c.
func (b *Board) CountStones(c Color) int {
	count := 0
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b[r][col] == c {
				count++
			}
		}
	}
	return count
}

// CapturedRuns returns, for each of the eight directions, the opponent
// stones that placing c at p would flip. A direction captures only when
// its run of opponent stones is closed by a stone of color c.
func (b *Board) CapturedRuns(p Pos, c Color) Runs {
	checkPos(p)
	opp := checkColor(c).Opposite()
	var runs Runs
	for i, d := range directions {
		x, y := p.Col, p.Row
		var run []Pos
		for {
			x += d[0]
			y += d[1]
			if x < 0 || x >= Size || y < 0 || y >= Size {
				run = nil
				break
			}
			sq := b[y][x]
			if sq == opp {
				run = append(run, Pos{x, y})
				continue
			}
			if sq != c {
				run = nil
			}
			break
		}
		runs[i] = run
	}
	return runs
}

// IsLegal reports whether c may play at p.
func (b *Board) IsLegal(p Pos, c Color) bool {
	checkPos(p)
	opp := checkColor(c).Opposite()
	if b[p.Row][p.Col] != Empty {
		return false
	}
	for _, d := range directions {
		x, y := p.Col+d[0], p.Row+d[1]
		seen := 0
		for x >= 0 && x < Size && y >= 0 && y < Size && b[y][x] == opp {
			x += d[0]
			y += d[1]
			seen++
		}
		if seen > 0 && x >= 0 && x < Size && y >= 0 && y < Size && b[y][x] == c {
			return true
		}
	}
	return false
}

// AvailableMoves returns the legal moves for c in row-major order.
func (b *Board) AvailableMoves(c Color) []Pos {
	checkColor(c)
	var moves []Pos
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			p := Pos{col, r}
			if b.IsLegal(p, c) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// HasMoves reports whether c has at least one legal move.
func (b *Board) HasMoves(c Color) bool {
	checkColor(c)
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b.IsLegal(Pos{col, r}, c) {
				return true
			}
		}
	}
	return false
}

// ApplyMove returns a copy of the board with c played at p and all
// captured stones flipped. The receiver is not modified. p must be empty;
// a move that captures nothing is still placed.
func (b Board) ApplyMove(p Pos, c Color) Board {
	runs := b.CapturedRuns(p, c)
	if b[p.Row][p.Col] != Empty {
		panic(violation("move at %v on an occupied square", p))
	}
	b[p.Row][p.Col] = c
	for _, run := range runs {
		for _, q := range run {
			b[q.Row][q.Col] = c
		}
	}
	return b
}

// GameOver reports whether neither color can move.
func (b *Board) GameOver() bool {
	return !b.HasMoves(Black) && !b.HasMoves(White)
}

// Key is a packed 128-bit fingerprint of a board: one bit per square for
// each stone color.
type Key struct {
	Black uint64
	White uint64
}

// Key returns the board's fingerprint.
func (b Board) Key() Key {
	var k Key
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			bit := uint64(1) << uint(r*Size+col)
			switch b[r][col] {
			case Black:
				k.Black |= bit
			case White:
				k.White |= bit
			}
		}
	}
	return k
}

// unpack rebuilds the position a key was made from.
func (k Key) unpack() Board {
	var b Board
	for i := 0; i < Size*Size; i++ {
		bit := uint64(1) << uint(i)
		switch {
		case k.Black&bit != 0:
			b[i/Size][i%Size] = Black
		case k.White&bit != 0:
			b[i/Size][i%Size] = White
		}
	}
	return b
}
