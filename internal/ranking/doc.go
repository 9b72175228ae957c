// Package ranking implements the personalized ranking engine behind job
// recommendations, people suggestions, and the home feed.
//
// The engine is a deterministic, explainable, weighted-sum ranker: for each
// (viewer, candidate) pair it computes a set of non-negative signal
// contributions, sums them using a per-mode weight table, and orders the
// candidate pool by (score desc, activity time desc, id asc). The id
// tie-break guarantees a total order and reproducible pagination.
//
// Basic usage:
//
//	weights, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		slog.Warn("using default ranking weights", "error", err)
//	}
//
//	engine := ranking.NewEngine(weights, ranking.WithGraphSource(expander))
//
//	page, err := engine.Rank(ctx, &ranking.RankRequest{
//		Viewer:     viewer,
//		Candidates: candidates,
//		Now:        time.Now(),
//		Limit:      20,
//		Mode:       ranking.ModeJobs,
//	})
//
// Determinism:
//
// Scoring is a pure function of (viewer, candidate, weight table, now). The
// reference time is an explicit parameter on every recency-style signal, never
// read from the wall clock inside the engine, so two Rank calls over identical
// inputs produce byte-identical ordered output.
//
// Calibration:
//
// Weight tables default to the product's hand-tuned contract values and can be
// overridden at deploy time via a JSON calibration file loaded at startup.
// Partial configurations are merged with defaults. See
// configs/ranking.calibration.json.
package ranking
