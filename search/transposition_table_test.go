package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/othello-go/reversi/board"
)

func TestTTableSize(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	is.Equal(tt.Size(), 1<<MinTableBits)
	tt.Reset(1)
	is.Equal(tt.Size(), 1<<MaxTableBits)
}

func TestTTableEntry(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)

	k := board.New().Key()
	_, ok := tt.lookup(k)
	is.True(!ok)

	tt.store(k, 4, 12.5, NodeExact)
	e, ok := tt.lookup(k)
	is.True(ok)
	is.Equal(e.Depth, int16(4))
	is.Equal(e.Score, 12.5)
	is.Equal(e.Type, NodeExact)

	// last write wins.
	tt.store(k, 2, -3, NodeLower)
	e, _ = tt.lookup(k)
	is.Equal(e.Type, NodeLower)
	is.Equal(e.Score, -3.0)

	is.Equal(tt.lookups.Load(), uint64(3))
	is.Equal(tt.hits.Load(), uint64(2))
	is.Equal(tt.created.Load(), uint64(2))
}

func TestTTableCollision(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)

	k := board.New().Key()
	tt.store(k, 3, 1, NodeExact)

	// find another board that lands in the same slot.
	var other board.Key
	for i := uint64(1); ; i++ {
		other = board.Key{Black: i}
		if other != k && slot(other)&tt.sizeMask == slot(k)&tt.sizeMask {
			break
		}
	}
	_, ok := tt.lookup(other)
	is.True(!ok)
	is.Equal(tt.collisions.Load(), uint64(1))

	// an empty slot is a miss but not a collision.
	tt.Reset(0)
	_, ok = tt.lookup(other)
	is.True(!ok)
	is.Equal(tt.collisions.Load(), uint64(0))
}

func TestTTableTempNeverOverwrites(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)

	k := board.New().Key()
	tt.storeTemp(k, 7)
	e, ok := tt.lookup(k)
	is.True(ok)
	is.Equal(e.Type, NodeTemp)

	tt.store(k, 1, 2, NodeUpper)
	tt.storeTemp(k, 9)
	e, _ = tt.lookup(k)
	is.Equal(e.Type, NodeUpper)
	is.Equal(e.Score, 2.0)
}

func TestTTableReset(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	k := board.New().Key()
	tt.store(k, 1, 1, NodeExact)
	tt.Reset(0)
	_, ok := tt.lookup(k)
	is.True(!ok)
	is.Equal(tt.created.Load(), uint64(0))
}
