package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"hex/agent"
	"hex/engine"
	"hex/experiments/metrics"
	"hex/game"
	"hex/searcher"
)

// Settings are the process-level knobs shared by all experiments.
type Settings struct {
	BoardSize int
	NumGames  int // per matchup
	MoveTime  time.Duration
}

// RunBudgetExperiment pits the searcher against itself at shrinking move
// budgets, and against the first-legal baseline, to relate thinking time to
// playing strength.
func RunBudgetExperiment(s Settings) error {
	configs := []metrics.AgentConfig{
		{ID: 0, Baseline: true},
		{ID: 1, MoveTime: s.MoveTime / 4, Bridges: true},
		{ID: 2, MoveTime: s.MoveTime / 2, Bridges: true},
		{ID: 3, MoveTime: s.MoveTime, Bridges: true},
	}
	matchUps := [][2]metrics.AgentConfig{
		{configs[3], configs[0]},
		{configs[3], configs[1]},
		{configs[3], configs[2]},
		{configs[1], configs[2]},
	}
	return runExperiment("budget", s, configs, matchUps)
}

// RunBridgeExperiment pits the full evaluation against the same searcher
// with bridge edges disabled.
func RunBridgeExperiment(s Settings) error {
	configs := []metrics.AgentConfig{
		{ID: 0, MoveTime: s.MoveTime, Bridges: true},
		{ID: 1, MoveTime: s.MoveTime, Bridges: false},
	}
	matchUps := [][2]metrics.AgentConfig{
		{configs[0], configs[1]},
	}
	return runExperiment("bridge", s, configs, matchUps)
}

// RunDepthExperiment compares depth-capped agents under a generous budget,
// isolating the value of deeper iterations.
func RunDepthExperiment(s Settings) error {
	configs := []metrics.AgentConfig{
		{ID: 0, MoveTime: s.MoveTime, MaxDepth: 1, Bridges: true},
		{ID: 1, MoveTime: s.MoveTime, MaxDepth: 2, Bridges: true},
		{ID: 2, MoveTime: s.MoveTime, MaxDepth: 3, Bridges: true},
	}
	matchUps := [][2]metrics.AgentConfig{
		{configs[0], configs[1]},
		{configs[1], configs[2]},
		{configs[0], configs[2]},
	}
	return runExperiment("depth", s, configs, matchUps)
}

func runExperiment(name string, s Settings, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) error {
	log.Info().
		Str("experiment", name).
		Int("board_size", s.BoardSize).
		Int("games_per_matchup", s.NumGames).
		Msg("experiment-started")

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	gameID := 0
	for _, matchUp := range matchUps {
		for i := 0; i < s.NumGames; i++ {
			// Alternate colors so neither configuration keeps the
			// first-move advantage.
			black, white := matchUp[0], matchUp[1]
			if i%2 == 1 {
				black, white = white, black
			}

			blackAgent, err := buildAgent(black)
			if err != nil {
				return err
			}
			whiteAgent, err := buildAgent(white)
			if err != nil {
				return err
			}

			e := engine.NewLocalEngine(s.BoardSize, s.MoveTime, blackAgent, whiteAgent)
			if black.MoveTime > 0 {
				e.SetBudget(game.Black, black.MoveTime)
			}
			if white.MoveTime > 0 {
				e.SetBudget(game.White, white.MoveTime)
			}
			winner, gameMetric, moveMetrics := e.Run()

			gameID++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         gameID,
				Black:      black.ID,
				White:      white.ID,
				GameMetric: gameMetric,
			})
			moveRecords = append(moveRecords, lo.Map(moveMetrics, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
				return metrics.MoveRecord{Game: gameID, MoveMetric: m}
			})...)
			log.Info().
				Int("game", gameID).
				Int("black", black.ID).
				Int("white", white.ID).
				Str("winner", winner).
				Msg("game-recorded")
		}
	}

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("experiment", name).Int("games", gameID).Msg("experiment-finished")
	return nil
}

func buildAgent(c metrics.AgentConfig) (agent.Agent, error) {
	name := fmt.Sprintf("agent-%d", c.ID)
	if c.Baseline {
		return agent.NewFirstMoveAgent(name), nil
	}
	options := []searcher.Option{searcher.WithBridges(c.Bridges)}
	if c.MaxDepth > 0 {
		options = append(options, searcher.WithMaxDepth(c.MaxDepth))
	}
	s, err := searcher.New(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", name, err)
	}
	return agent.NewSearchAgent(name, s), nil
}

