package searcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hex/game"
)

func newTestSearcher(t *testing.T, options ...Option) *Searcher {
	t.Helper()
	options = append([]Option{WithTTCapacity(minTTCapacity)}, options...)
	s, err := New(options...)
	require.NoError(t, err)
	return s
}

func TestNewValidation(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		_, err := New()
		require.NoError(t, err)
	})

	t.Run("max depth below one", func(t *testing.T) {
		_, err := New(WithMaxDepth(0))
		require.Error(t, err)
	})

	t.Run("tt capacity not a power of two", func(t *testing.T) {
		_, err := New(WithTTCapacity(3000))
		require.Error(t, err)
	})

	t.Run("tt capacity too small", func(t *testing.T) {
		_, err := New(WithTTCapacity(512))
		require.Error(t, err)
	})
}

func TestFindMoveImmediateWin(t *testing.T) {
	// Black has a chain down column 2 ending on row 3; one placement on the
	// last row wins.
	b := playMoves(t, game.NewBoard(5),
		game.Move{Row: 0, Col: 2}, game.Move{Row: 0, Col: 0},
		game.Move{Row: 1, Col: 2}, game.Move{Row: 0, Col: 4},
		game.Move{Row: 2, Col: 2}, game.Move{Row: 2, Col: 4},
		game.Move{Row: 3, Col: 2}, game.Move{Row: 4, Col: 4},
	)
	require.Equal(t, game.Black, b.ToMove())
	require.Equal(t, 0, game.ConnectionDistance(b, game.Black, true),
		"the threat is complete before the move")

	s := newTestSearcher(t)
	move, stats, err := s.FindMove(b, nil)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Depth, "a forced win must stop the deepening at once")
	require.Equal(t, WinScore, stats.Value)

	after, err := b.Place(move)
	require.NoError(t, err)
	winner, over := after.Winner()
	require.True(t, over, "the chosen move must finish the game")
	require.Equal(t, game.Black, winner)
}

func TestFindMoveForcedBlock(t *testing.T) {
	// Black again threatens down column 2, but White holds (4,1), so (4,2)
	// is the single completing cell and White must take it.
	b := playMoves(t, game.NewBoard(5),
		game.Move{Row: 0, Col: 2}, game.Move{Row: 0, Col: 0},
		game.Move{Row: 1, Col: 2}, game.Move{Row: 2, Col: 4},
		game.Move{Row: 2, Col: 2}, game.Move{Row: 4, Col: 1},
		game.Move{Row: 3, Col: 2},
	)
	require.Equal(t, game.White, b.ToMove())

	s := newTestSearcher(t, WithMaxDepth(2))
	move, _, err := s.FindMove(b, nil)
	require.NoError(t, err)
	require.Equal(t, game.Move{Row: 4, Col: 2}, move)

	after, err := b.Place(move)
	require.NoError(t, err)
	require.Positive(t, game.ConnectionDistance(after, game.Black, true),
		"the block must break the immediate threat")
}

func TestFindMoveBridgePreference(t *testing.T) {
	// On an empty board a first-row stone feeds the bridge ladder to the far
	// edge; a corner stone does not. The bridge-aware evaluation must steer
	// the opening away from the corner.
	empty := game.NewBoard(5)
	s := newTestSearcher(t, WithMaxDepth(1))
	move, _, err := s.FindMove(empty, nil)
	require.NoError(t, err)

	chosen, err := empty.Place(move)
	require.NoError(t, err)
	corner, err := empty.Place(game.Move{Row: 0, Col: 0})
	require.NoError(t, err)
	require.Less(t,
		game.ConnectionDistance(chosen, game.Black, true),
		game.ConnectionDistance(corner, game.Black, true))
}

func TestFindMoveDeterminism(t *testing.T) {
	b := playMoves(t, game.NewBoard(5),
		game.Move{Row: 2, Col: 2}, game.Move{Row: 1, Col: 3})

	s := newTestSearcher(t, WithMaxDepth(2))
	move1, stats1, err := s.FindMove(b, nil)
	require.NoError(t, err)
	move2, stats2, err := s.FindMove(b, nil)
	require.NoError(t, err)

	require.Equal(t, move1, move2)
	require.Equal(t, stats1.Value, stats2.Value)
	require.Equal(t, stats1.Nodes, stats2.Nodes)
	require.Equal(t, stats1.Depth, stats2.Depth)
}

func TestFindMoveTranspositionTableSoundness(t *testing.T) {
	// The table must never change the value a completed iteration settles
	// on, only the work needed to get there.
	b := playMoves(t, game.NewBoard(4), game.Move{Row: 1, Col: 1})

	withTT := newTestSearcher(t, WithMaxDepth(3))
	bare := newTestSearcher(t, WithMaxDepth(3))
	bare.disableTT = true

	_, statsTT, err := withTT.FindMove(b, nil)
	require.NoError(t, err)
	_, statsBare, err := bare.FindMove(b, nil)
	require.NoError(t, err)

	require.Equal(t, statsBare.Depth, statsTT.Depth)
	require.Equal(t, statsBare.Value, statsTT.Value)
}

func TestFindMoveCommitOnComplete(t *testing.T) {
	// The evaluation counts horizon nodes and trips the stop flag on the
	// first evaluation of the second iteration, so iteration two can never
	// finish. The result must be exactly the depth-1 result.
	board := game.NewBoard(4)
	firstIteration := len(board.LegalMoves())

	var stop atomic.Bool
	evals := 0
	tripwire := func(b *game.Board, pov game.Side) int32 {
		evals++
		if evals > firstIteration {
			stop.Store(true)
		}
		return game.EvaluateConnectivity(b, pov)
	}

	interrupted := newTestSearcher(t, WithEvaluationFn(tripwire))
	move, stats, err := interrupted.FindMove(board, &stop)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Depth, "the aborted iteration must not be committed")

	depthOne := newTestSearcher(t, WithMaxDepth(1))
	wantMove, wantStats, err := depthOne.FindMove(board, nil)
	require.NoError(t, err)
	require.Equal(t, wantMove, move)
	require.Equal(t, wantStats.Value, stats.Value)
}

func TestFindMovePreRaisedStop(t *testing.T) {
	var stop atomic.Bool
	stop.Store(true)

	b := game.NewBoard(5)
	s := newTestSearcher(t)
	move, stats, err := s.FindMove(b, &stop)
	require.NoError(t, err)
	require.Equal(t, game.Move{Row: 0, Col: 0}, move,
		"with no completed iteration the fallback is the first legal move")
	require.Zero(t, stats.Depth)
	require.Equal(t, SearchType, stats.SearchType)
}

func TestFindMoveCancellationLatency(t *testing.T) {
	b := game.NewBoard(11)
	var stop atomic.Bool
	timer := time.AfterFunc(10*time.Millisecond, func() { stop.Store(true) })
	defer timer.Stop()

	s := newTestSearcher(t)
	start := time.Now()
	move, stats, err := s.FindMove(b, &stop)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Less(t, elapsed, 2*time.Second, "cancellation must cut the search short")
	require.GreaterOrEqual(t, stats.Depth, 1, "the first iteration is fast enough to commit")
	_, placeErr := b.Place(move)
	require.NoError(t, placeErr, "the committed move must be legal")

	if stats.Depth == 1 {
		depthOne := newTestSearcher(t, WithMaxDepth(1))
		want, _, err := depthOne.FindMove(b, nil)
		require.NoError(t, err)
		require.Equal(t, want, move, "a depth-1 commit must match a clean depth-1 search")
	}
}

func TestFindMoveNearlyBlocked(t *testing.T) {
	// White owns almost all of row 2; Black's only corridor runs through
	// (2,0). Black must still produce a legal move and a bleak value.
	b := playMoves(t, game.NewBoard(5),
		game.Move{Row: 0, Col: 0}, game.Move{Row: 2, Col: 1},
		game.Move{Row: 0, Col: 1}, game.Move{Row: 2, Col: 2},
		game.Move{Row: 0, Col: 2}, game.Move{Row: 2, Col: 3},
		game.Move{Row: 4, Col: 4}, game.Move{Row: 2, Col: 4},
	)
	require.Equal(t, game.Black, b.ToMove())

	s := newTestSearcher(t, WithMaxDepth(2))
	move, stats, err := s.FindMove(b, nil)
	require.NoError(t, err)
	_, placeErr := b.Place(move)
	require.NoError(t, placeErr)
	require.Negative(t, stats.Value, "a nearly walled-off side reads as losing")
}

func TestFindMoveContractViolations(t *testing.T) {
	t.Run("terminal board", func(t *testing.T) {
		b := playMoves(t, game.NewBoard(2),
			game.Move{Row: 0, Col: 0}, game.Move{Row: 0, Col: 1},
			game.Move{Row: 1, Col: 0},
		)
		require.True(t, b.IsTerminal())

		s := newTestSearcher(t)
		_, _, err := s.FindMove(b, nil)
		require.ErrorIs(t, err, ErrNoLegalMove)
	})
}

func TestFindMoveExhaustsSmallBoards(t *testing.T) {
	// With no depth cap and no stop flag the search must still return once
	// the horizon covers the whole remaining game.
	b := game.NewBoard(2)
	s := newTestSearcher(t)
	move, stats, err := s.FindMove(b, nil)
	require.NoError(t, err)
	require.LessOrEqual(t, stats.Depth, len(b.LegalMoves()))
	_, placeErr := b.Place(move)
	require.NoError(t, placeErr)
	require.Equal(t, WinScore, stats.Value, "the first player always wins a 2×2 board")
}
