package search

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/othello-go/reversi/board"
)

// NodeType says how a stored score relates to the true value of a node.
type NodeType uint8

const (
	NodeNone NodeType = iota
	// NodeExact scores are the searched value of the node.
	NodeExact
	// NodeLower scores failed high: the true value is at least this.
	NodeLower
	// NodeUpper scores failed low: the true value is at most this.
	NodeUpper
	// NodeTemp scores are static evaluations stored to order moves. They
	// never cut the search.
	NodeTemp
)

func (n NodeType) String() string {
	switch n {
	case NodeExact:
		return "exact"
	case NodeLower:
		return "lowerbound"
	case NodeUpper:
		return "upperbound"
	case NodeTemp:
		return "temp"
	}
	return "none"
}

const (
	entrySize    = 32
	MinTableBits = 10
	MaxTableBits = 20
)

// Entry is a single slot of the table. The full key is kept so that two
// boards sharing a slot are told apart.
type Entry struct {
	Key   board.Key
	Score float64
	Depth int16
	Type  NodeType
}

func (e Entry) valid() bool {
	return e.Type != NodeNone
}

// TranspositionTable caches search results by board. It is owned by a single
// Solver and cleared at the start of every move decision.
type TranspositionTable struct {
	table        []Entry
	sizePowerOf2 int
	sizeMask     uint64

	created    atomic.Uint64
	lookups    atomic.Uint64
	hits       atomic.Uint64
	collisions atomic.Uint64
}

func slot(k board.Key) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], k.Black)
	binary.LittleEndian.PutUint64(buf[8:], k.White)
	return xxhash.Sum64(buf[:])
}

func (t *TranspositionTable) lookup(k board.Key) (Entry, bool) {
	t.lookups.Add(1)
	idx := slot(k) & t.sizeMask
	e := t.table[idx]
	if !e.valid() {
		return Entry{}, false
	}
	if e.Key != k {
		// Another board lives in this slot.
		t.collisions.Add(1)
		return Entry{}, false
	}
	t.hits.Add(1)
	return e, true
}

func (t *TranspositionTable) store(k board.Key, depth int, score float64, nt NodeType) {
	idx := slot(k) & t.sizeMask
	// last write wins.
	t.table[idx] = Entry{Key: k, Score: score, Depth: int16(depth), Type: nt}
	t.created.Add(1)
}

// storeTemp records an ordering estimate, but only into an empty slot.
func (t *TranspositionTable) storeTemp(k board.Key, score float64) {
	idx := slot(k) & t.sizeMask
	if t.table[idx].valid() {
		return
	}
	t.table[idx] = Entry{Key: k, Score: score, Type: NodeTemp}
	t.created.Add(1)
}

// Reset sizes the table to fractionOfMemory of the system memory, clamped to
// [2^MinTableBits, 2^MaxTableBits] slots, and empties it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	// find biggest power of 2 lower than desired.
	switch {
	case desiredNElems < float64(uint64(1)<<MinTableBits):
		t.sizePowerOf2 = MinTableBits
	case desiredNElems >= float64(uint64(1)<<MaxTableBits):
		t.sizePowerOf2 = MaxTableBits
	default:
		t.sizePowerOf2 = int(math.Log2(desiredNElems))
	}

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]Entry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
}

// Size returns the number of slots.
func (t *TranspositionTable) Size() int {
	return len(t.table)
}
