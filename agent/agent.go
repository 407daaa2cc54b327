package agent

import (
	"sync/atomic"

	"hex/game"
	"hex/searcher"
)

// Agent is the capability surface a match harness drives: a stable name, a
// synchronous move computation, and a timeout signal that may fire from any
// goroutine while Move is running.
type Agent interface {
	Name() string
	Move(b *game.Board) (game.Move, searcher.Stats, error)
	OnTimeout()
}

type searchAgent struct {
	name     string
	searcher *searcher.Searcher
	stop     atomic.Bool
}

// NewSearchAgent returns an agent backed by the iterative-deepening
// searcher.
func NewSearchAgent(name string, s *searcher.Searcher) Agent {
	return &searchAgent{name: name, searcher: s}
}

func (a *searchAgent) Name() string { return a.name }

// Move searches b until OnTimeout fires. The stop flag is cleared on entry,
// so a stale timeout from the previous turn cannot cut this one short.
func (a *searchAgent) Move(b *game.Board) (game.Move, searcher.Stats, error) {
	a.stop.Store(false)
	return a.searcher.FindMove(b, &a.stop)
}

func (a *searchAgent) OnTimeout() {
	a.stop.Store(true)
}

type firstMoveAgent struct {
	name string
}

// NewFirstMoveAgent returns a baseline agent that always plays the first
// legal move in row-major order.
func NewFirstMoveAgent(name string) Agent {
	return &firstMoveAgent{name: name}
}

func (a *firstMoveAgent) Name() string { return a.name }

func (a *firstMoveAgent) Move(b *game.Board) (game.Move, searcher.Stats, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, searcher.Stats{}, searcher.ErrNoLegalMove
	}
	return moves[0], searcher.Stats{SearchType: "first-legal"}, nil
}

func (a *firstMoveAgent) OnTimeout() {}
