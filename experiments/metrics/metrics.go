package metrics

import (
	"time"

	"hex/game"
)

// MoveMetric records one move of a game.
type MoveMetric struct {
	Step     int
	Side     game.Side
	Move     game.Move
	Nodes    int
	Depth    int
	Duration time.Duration
}

// GameMetric records one finished game.
type GameMetric struct {
	StartingSide game.Side
	Winner       game.Side
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalMoves   int
}

// AgentConfig describes one agent configuration under test.
type AgentConfig struct {
	ID       int
	MoveTime time.Duration
	MaxDepth int
	Bridges  bool
	Baseline bool // first-legal-move agent instead of the searcher
}

// GameRecord ties a finished game to the configurations that played it.
type GameRecord struct {
	ID    int
	Black int // AgentConfig.ID
	White int
	GameMetric
}

// MoveRecord ties a move to its game.
type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
