package searcher

import (
	"sync/atomic"

	"hex/game"
)

// WinScore is the terminal value. Any heuristic output stays strictly
// inside (-WinScore, WinScore), so a score at the band edge always means a
// decided game.
const WinScore int32 = 1 << 20

// infinity bounds the search window; it exceeds WinScore so terminal values
// still move alpha.
const infinity int32 = 1 << 30

// cancelled is the value an interrupted node unwinds with. Callers never
// act on it: the deepener discards the whole iteration once the stop flag
// is observed up.
const cancelled int32 = 0

// searchState is the per-FindMove context: the keyer, the table, the
// evaluation, the harness stop flag, and the node counter.
type searchState struct {
	zobrist *Zobrist
	tt      *transTable
	eval    game.Evaluate
	stop    *atomic.Bool
	nodes   int
}

func (s *searchState) stopped() bool {
	return s.stop != nil && s.stop.Load()
}

// negamax is a fail-soft alpha-beta search returning the value of b from
// the side-to-move's perspective. key must be the Zobrist key of b.
func (s *searchState) negamax(b *game.Board, key uint64, depth int, alpha, beta int32) int32 {
	if s.stopped() {
		return cancelled
	}
	if winner, over := b.Winner(); over {
		// In Hex the winner is the player who just moved, so the side to
		// move at a terminal node has lost.
		if winner == b.ToMove() {
			return WinScore
		}
		return -WinScore
	}
	if depth == 0 {
		s.nodes++
		return s.eval(b, b.ToMove())
	}

	alphaOrig, betaOrig := alpha, beta
	var ttMove game.Move
	var haveTTMove bool
	if s.tt != nil {
		if entry, ok := s.tt.probe(key); ok {
			if int(entry.depth) >= depth {
				switch entry.flag {
				case ttExact:
					return entry.value
				case ttLower:
					if entry.value >= beta {
						return entry.value
					}
				case ttUpper:
					if entry.value <= alpha {
						return entry.value
					}
				}
			}
			ttMove, haveTTMove = entry.move, entry.hasMove
		}
	}

	moves := b.LegalMoves()
	if haveTTMove {
		moves = orderFirst(moves, ttMove)
	}

	best := -infinity
	var bestMove game.Move
	haveBest := false
	for _, m := range moves {
		if s.stopped() {
			break
		}
		child, err := b.Place(m)
		if err != nil {
			// LegalMoves yields only empty cells of a live board.
			panic(err)
		}
		value := -s.negamax(child, s.zobrist.Apply(key, m, b.ToMove()), depth-1, -beta, -alpha)
		if s.stopped() {
			// The child unwound through the cancellation path; its value
			// carries no information.
			break
		}
		if !haveBest || value > best {
			best = value
			bestMove = m
			haveBest = true
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	if !haveBest {
		if s.stopped() {
			return cancelled
		}
		panic("hex: non-terminal board with no legal moves")
	}

	if s.tt != nil {
		flag := ttExact
		switch {
		case best <= alphaOrig:
			flag = ttUpper
		case best >= betaOrig:
			flag = ttLower
		}
		s.tt.store(key, depth, best, flag, bestMove, true)
	}
	return best
}

// rootSearch runs one fixed-depth iteration over the root moves and reports
// whether it ran to completion. Results of incomplete iterations carry no
// information and must be discarded.
func (s *searchState) rootSearch(b *game.Board, key uint64, depth int, moves []game.Move) (game.Move, int32, bool) {
	ordered := moves
	if s.tt != nil {
		if entry, ok := s.tt.probe(key); ok && entry.hasMove {
			ordered = orderFirst(moves, entry.move)
		}
	}

	alpha, beta := -infinity, infinity
	var best game.Move
	bestValue := -infinity
	haveBest := false
	for _, m := range ordered {
		if s.stopped() {
			return game.Move{}, cancelled, false
		}
		child, err := b.Place(m)
		if err != nil {
			panic(err)
		}
		value := -s.negamax(child, s.zobrist.Apply(key, m, b.ToMove()), depth-1, -beta, -alpha)
		if s.stopped() {
			return game.Move{}, cancelled, false
		}
		if !haveBest || value > bestValue {
			best = m
			bestValue = value
			haveBest = true
		}
		if bestValue > alpha {
			alpha = bestValue
		}
	}
	if s.tt != nil {
		s.tt.store(key, depth, bestValue, ttExact, best, true)
	}
	return best, bestValue, true
}

// orderFirst moves hint to the front, keeping the remaining row-major order
// stable. The hint comes from the transposition table and may be stale for
// this node; a hint not in moves is ignored.
func orderFirst(moves []game.Move, hint game.Move) []game.Move {
	for i, m := range moves {
		if m == hint {
			ordered := make([]game.Move, 0, len(moves))
			ordered = append(ordered, hint)
			ordered = append(ordered, moves[:i]...)
			ordered = append(ordered, moves[i+1:]...)
			return ordered
		}
	}
	return moves
}
