package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hex/agent"
	"hex/experiments/metrics"
	"hex/game"
)

// LocalEngine plays two agents against each other on one machine. Each move
// gets a wall-clock budget enforced through the agent's timeout signal; the
// agents themselves carry no timers.
type LocalEngine struct {
	size    int
	budgets [2]time.Duration // indexed by game.Side
	agents  [2]agent.Agent   // indexed by game.Side

	// Final holds the terminal position after Run returns.
	Final *game.Board
}

// NewLocalEngine builds an engine for one game of the given board size.
// black and white play the corresponding sides.
func NewLocalEngine(size int, budget time.Duration, black, white agent.Agent) *LocalEngine {
	if size < 1 {
		panic(fmt.Sprintf("board size must be positive, got %d", size))
	}
	if budget <= 0 {
		panic(fmt.Sprintf("move budget must be positive, got %v", budget))
	}
	return &LocalEngine{
		size:    size,
		budgets: [2]time.Duration{budget, budget},
		agents:  [2]agent.Agent{black, white},
	}
}

// SetBudget overrides the move budget for one side, for handicap games and
// budget-versus-strength experiments.
func (e *LocalEngine) SetBudget(s game.Side, budget time.Duration) {
	if budget <= 0 {
		panic(fmt.Sprintf("move budget must be positive, got %v", budget))
	}
	e.budgets[s] = budget
}

// Run plays the game until a side connects its edges. A game of Hex cannot
// draw and cannot exceed size² placements, so the loop always terminates.
func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	board := game.NewBoard(e.size)
	gameMetric := metrics.GameMetric{
		StartingSide: board.ToMove(),
		StartTime:    time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().
		Int("size", e.size).
		Dur("black_budget", e.budgets[game.Black]).
		Dur("white_budget", e.budgets[game.White]).
		Str("black", e.agents[game.Black].Name()).
		Str("white", e.agents[game.White].Name()).
		Msg("game-started")

	for step := 1; !board.IsTerminal(); step++ {
		mover := board.ToMove()
		ag := e.agents[mover]

		start := time.Now()
		timer := time.AfterFunc(e.budgets[mover], ag.OnTimeout)
		move, stats, err := ag.Move(board)
		timer.Stop()
		if err != nil {
			// An agent refusing to move on a live board is a programming
			// error on its side; the engine plays on for it.
			log.Error().Err(err).Str("agent", ag.Name()).Msg("agent failed to move")
			move = board.LegalMoves()[0]
		}

		next, err := board.Place(move)
		if err != nil {
			log.Warn().
				Err(err).
				Str("agent", ag.Name()).
				Stringer("move", move).
				Msg("illegal move, playing first legal instead")
			next, err = board.Place(board.LegalMoves()[0])
			if err != nil {
				panic(err)
			}
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:     step,
			Side:     mover,
			Move:     move,
			Nodes:    stats.Nodes,
			Depth:    stats.Depth,
			Duration: time.Since(start),
		})
		board = next
	}

	winner, _ := board.Winner()
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	e.Final = board

	log.Info().
		Stringer("winner", winner).
		Int("moves", gameMetric.TotalMoves).
		Dur("duration", gameMetric.Duration).
		Msg("game-over")
	return winner.String(), gameMetric, moveMetrics
}
