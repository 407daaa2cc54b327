package engine

import "hex/experiments/metrics"

// Engine runs a game of Hex between two agents.
type Engine interface {
	// Run plays a game to completion and reports the winner together with
	// per-game and per-move metrics.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
