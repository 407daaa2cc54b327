package searcher

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"hex/game"
)

// SearchType identifies the algorithm behind the stats this package
// reports.
const SearchType = "alpha-beta-ids"

// DefaultMaxDepth is the practical per-call cap on iterative deepening; a
// harness relying on wall-clock stops never reaches it.
const DefaultMaxDepth = 64

var ErrNoLegalMove = errors.New("no legal move")

type Option func(*Searcher)

// WithMaxDepth caps iterative deepening at the given depth.
func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		s.maxDepth = depth
	}
}

// WithTTCapacity sets the transposition table size in entries; it must be a
// power of two of at least 1024.
func WithTTCapacity(capacity int) Option {
	return func(s *Searcher) {
		s.ttCapacity = capacity
	}
}

// WithEvaluationFn replaces the horizon evaluation entirely. It overrides
// WithHeuristicWeights and WithBridges, which parameterize the default
// connectivity evaluation.
func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Searcher) {
		s.evaluate = evaluate
	}
}

// WithHeuristicWeights sets the connectivity weights: the horizon value is
// oppWeight·d(opponent) − ownWeight·d(own).
func WithHeuristicWeights(oppWeight, ownWeight int) Option {
	return func(s *Searcher) {
		s.oppWeight = oppWeight
		s.ownWeight = ownWeight
	}
}

// WithBridges toggles bridge edges in the connection-distance evaluation.
func WithBridges(enabled bool) Option {
	return func(s *Searcher) {
		s.bridges = enabled
	}
}

// WithSeed sets the seed the Zobrist constants are derived from.
func WithSeed(seed uint64) Option {
	return func(s *Searcher) {
		s.seed = seed
	}
}

// Searcher finds moves by iterative-deepening alpha-beta search. One
// Searcher serves one FindMove call at a time; the only concurrent actor it
// tolerates is a harness raising the stop flag.
type Searcher struct {
	maxDepth   int
	ttCapacity int
	evaluate   game.Evaluate
	oppWeight  int
	ownWeight  int
	bridges    bool
	seed       uint64

	disableTT bool // tests only
}

// New builds a Searcher, rejecting invalid configuration.
func New(options ...Option) (*Searcher, error) {
	s := &Searcher{
		maxDepth:   DefaultMaxDepth,
		ttCapacity: suggestedTTCapacity(),
		oppWeight:  10,
		ownWeight:  11,
		bridges:    true,
		seed:       DefaultSeed,
	}
	for _, option := range options {
		option(s)
	}
	if s.maxDepth < 1 {
		return nil, fmt.Errorf("max depth must be at least 1, got %d", s.maxDepth)
	}
	if s.ttCapacity < minTTCapacity || s.ttCapacity&(s.ttCapacity-1) != 0 {
		return nil, fmt.Errorf("tt capacity must be a power of two of at least %d, got %d", minTTCapacity, s.ttCapacity)
	}
	if s.evaluate == nil {
		s.evaluate = game.ConnectivityEvaluator(s.oppWeight, s.ownWeight, s.bridges)
	}
	return s, nil
}

// Stats describes one FindMove call.
type Stats struct {
	Nodes      int    // horizon positions evaluated
	Depth      int    // deepest fully completed iteration
	Value      int32  // root value of that iteration
	SearchType string // algorithm identifier
}

// FindMove runs iterative deepening from b until the stop flag fires, the
// depth cap is reached, or the position is searched to the end of the game.
// The committed move is always the best move of the deepest iteration that
// completed with the flag still down; an iteration interrupted halfway
// never overwrites it. When not even the first iteration finished, the
// first legal move is returned.
func (s *Searcher) FindMove(b *game.Board, stop *atomic.Bool) (game.Move, Stats, error) {
	stats := Stats{SearchType: SearchType}
	if b.IsTerminal() {
		return game.Move{}, stats, fmt.Errorf("%w: game is over", ErrNoLegalMove)
	}
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, stats, ErrNoLegalMove
	}

	state := &searchState{
		zobrist: zobristFor(b.Size(), s.seed),
		eval:    s.evaluate,
		stop:    stop,
	}
	if !s.disableTT {
		state.tt = newTransTable(s.ttCapacity)
	}
	rootKey := state.zobrist.Hash(b)

	start := time.Now()
	var committed game.Move
	var committedValue int32
	hasCommitted := false
	for depth := 1; depth <= s.maxDepth; depth++ {
		if state.stopped() {
			break
		}
		move, value, complete := state.rootSearch(b, rootKey, depth, moves)
		if !complete {
			break
		}
		committed, committedValue, hasCommitted = move, value, true
		stats.Depth = depth
		log.Debug().
			Int("depth", depth).
			Int32("value", value).
			Stringer("move", move).
			Msg("iteration-committed")
		if value >= WinScore {
			// A forced win is on the board; deeper iterations cannot
			// improve on it.
			break
		}
		if depth >= len(moves) {
			// The remaining game fits inside the horizon.
			break
		}
	}

	stats.Nodes = state.nodes
	stats.Value = committedValue
	if !hasCommitted {
		committed = moves[0]
	}
	log.Debug().
		Int("depth", stats.Depth).
		Int("nodes", stats.Nodes).
		Dur("elapsed", time.Since(start)).
		Stringer("move", committed).
		Msg("search-finished")
	return committed, stats, nil
}
