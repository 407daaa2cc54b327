package searcher

import (
	"sync"

	"golang.org/x/exp/rand"

	"hex/game"
)

// DefaultSeed is the fixed constant Zobrist tables are derived from unless a
// searcher is configured otherwise. Per-process keys are therefore stable
// and tests can pin them.
const DefaultSeed uint64 = 0x9e3779b97f4a7c15

// Zobrist holds the random constants hashing Hex positions of one board
// size: one 64-bit value per (cell, occupancy) pair plus one per side to
// move. Tables are immutable once published.
type Zobrist struct {
	size  int
	cells []uint64 // indexed (row*size+col)*3 + occupancy
	turn  [2]uint64
}

type zobristKey struct {
	size int
	seed uint64
}

var zobristTables = struct {
	mu     sync.Mutex
	tables map[zobristKey]*Zobrist
}{tables: make(map[zobristKey]*Zobrist)}

// zobristFor returns the table for the given board size and seed, filling
// it from a seeded PRNG on first use.
func zobristFor(size int, seed uint64) *Zobrist {
	key := zobristKey{size: size, seed: seed}
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if z, ok := zobristTables.tables[key]; ok {
		return z
	}
	rng := rand.New(rand.NewSource(seed ^ uint64(size)))
	z := &Zobrist{size: size, cells: make([]uint64, size*size*3)}
	for i := range z.cells {
		z.cells[i] = rng.Uint64()
	}
	z.turn[game.Black] = rng.Uint64()
	z.turn[game.White] = rng.Uint64()
	zobristTables.tables[key] = z
	return z
}

func (z *Zobrist) cell(row, col int, occ game.Cell) uint64 {
	return z.cells[(row*z.size+col)*3+int(occ)]
}

// Hash computes the full key of a position: the XOR of every cell's
// occupancy constant, empties included, and the side-to-move constant.
func (z *Zobrist) Hash(b *game.Board) uint64 {
	var key uint64
	for row := 0; row < z.size; row++ {
		for col := 0; col < z.size; col++ {
			key ^= z.cell(row, col, b.At(row, col))
		}
	}
	return key ^ z.turn[b.ToMove()]
}

// Apply advances a key by one placement: the cell flips from empty to the
// mover's stone and the turn flips. The update is an involution — applying
// it twice restores the previous key.
func (z *Zobrist) Apply(key uint64, m game.Move, s game.Side) uint64 {
	return key ^
		z.cell(m.Row, m.Col, game.Empty) ^
		z.cell(m.Row, m.Col, s.Stone()) ^
		z.turn[game.Black] ^ z.turn[game.White]
}
