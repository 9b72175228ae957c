package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds the number of concurrent per-candidate scoring
// goroutines. Scoring is pure and side-effect free, so candidates within one
// request can be evaluated in parallel without synchronization.
const DefaultParallelism = 8

// Engine ranks a materialized candidate pool against a viewer context.
// It holds no per-request state; a single Engine is safe for concurrent use.
type Engine struct {
	weights     *Weights
	graph       SecondDegreeSource
	parallelism int
	metrics     *Metrics
	tracer      trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithGraphSource supplies the second-degree connection resolver required by
// people mode.
func WithGraphSource(src SecondDegreeSource) Option {
	return func(e *Engine) { e.graph = src }
}

// WithParallelism sets the scoring concurrency bound. Values below 1 are
// ignored.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.parallelism = n
		}
	}
}

// WithMetrics attaches Prometheus metrics to the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer attaches an OpenTelemetry tracer; rank calls then emit spans over
// the expand and score phases.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an Engine with the given weight tables. A nil weights
// argument selects the default calibration.
func NewEngine(weights *Weights, opts ...Option) *Engine {
	if weights == nil {
		weights = DefaultWeights()
	}
	e := &Engine{
		weights:     weights,
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank scores, filters, sorts, and paginates the request's candidate pool.
//
// Candidates are scored in parallel; the second-degree set for people mode is
// resolved exactly once before the scoring pass and treated as immutable
// during it. The result ordering is (score desc, activity time desc, id asc),
// so identical inputs produce identical output.
//
// An empty pool yields an empty page with TotalCandidatesConsidered == 0.
// Contract violations (nil viewer, invalid mode, negative limit or offset,
// candidate variant not matching the mode) and graph-source failures are the
// only error returns; missing profile or candidate data degrades the affected
// signals to zero instead.
func (e *Engine) Rank(ctx context.Context, req *RankRequest) (*RankedPage, error) {
	start := time.Now()

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "ranking.Rank")
		defer span.End()
		if req != nil {
			span.SetAttributes(
				attribute.String("ranking.mode", string(req.Mode)),
				attribute.Int("ranking.pool_size", len(req.Candidates)),
			)
		}
	}

	page, err := e.rank(ctx, req)

	if e.metrics != nil {
		mode := "invalid"
		if req != nil && req.Mode.Valid() {
			mode = string(req.Mode)
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		e.metrics.ObserveRank(mode, status, time.Since(start))
		if page != nil {
			e.metrics.ObserveCandidatesConsidered(mode, page.TotalCandidatesConsidered)
			if len(page.Items) == 0 && err == nil {
				e.metrics.IncEmptyResults(mode)
			}
		}
	}

	return page, err
}

func (e *Engine) rank(ctx context.Context, req *RankRequest) (*RankedPage, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	secondDegree, err := e.resolveSecondDegree(ctx, req)
	if err != nil {
		return nil, err
	}

	scored, err := e.scorePool(ctx, req, secondDegree)
	if err != nil {
		return nil, err
	}

	kept := scored
	if !req.Mode.IncludesZeroScores() {
		kept = kept[:0:0]
		for _, sc := range scored {
			if sc.Score > 0 {
				kept = append(kept, sc)
			}
		}
	}

	sortScored(kept)

	page := &RankedPage{
		Items:                     paginate(kept, req.Limit, req.Offset),
		TotalCandidatesConsidered: len(req.Candidates),
	}
	if !req.Mode.IncludesZeroScores() && len(kept) == 0 {
		page.Message = EmptyResultMessage
	}
	return page, nil
}

func validateRequest(req *RankRequest) error {
	if req == nil {
		return ErrNilRequest
	}
	if req.Viewer == nil {
		return ErrNilViewer
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.Limit < 0 {
		return ErrNegativeLimit
	}
	if req.Offset < 0 {
		return ErrNegativeOffset
	}
	for _, c := range req.Candidates {
		if !candidateMatchesMode(c, req.Mode) {
			return fmt.Errorf("%w: candidate %q in mode %q", ErrCandidateMode, c.CandidateID(), req.Mode)
		}
	}
	return nil
}

func candidateMatchesMode(c Candidate, mode Mode) bool {
	switch mode {
	case ModeJobs:
		_, ok := c.(*JobCandidate)
		return ok
	case ModePeople:
		_, ok := c.(*PersonCandidate)
		return ok
	case ModeFeed:
		_, ok := c.(*PostCandidate)
		return ok
	default:
		return false
	}
}

// resolveSecondDegree performs the one graph lookup a people-mode request
// needs. The exclusion set is the viewer plus everyone the viewer already
// connects to or follows.
func (e *Engine) resolveSecondDegree(ctx context.Context, req *RankRequest) (Set, error) {
	if req.Mode != ModePeople {
		return nil, nil
	}
	if e.graph == nil {
		return nil, ErrGraphSourceRequired
	}

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "ranking.SecondDegree")
		defer span.End()
	}

	exclude := make(Set, len(req.Viewer.DirectConnections)+len(req.Viewer.Following)+1)
	exclude[req.Viewer.ID] = struct{}{}
	for id := range req.Viewer.DirectConnections {
		exclude[id] = struct{}{}
	}
	for id := range req.Viewer.Following {
		exclude[id] = struct{}{}
	}

	secondDegree, err := e.graph.SecondDegree(ctx, req.Viewer.DirectConnections, exclude)
	if err != nil {
		return nil, fmt.Errorf("expanding second-degree connections: %w", err)
	}
	return secondDegree, nil
}

// scorePool evaluates every candidate concurrently. Results land in a
// preallocated slice by index, so concurrency never affects ordering.
func (e *Engine) scorePool(ctx context.Context, req *RankRequest, secondDegree Set) ([]ScoredCandidate, error) {
	scored := make([]ScoredCandidate, len(req.Candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, c := range req.Candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var (
				score     float64
				breakdown map[string]float64
			)
			switch candidate := c.(type) {
			case *JobCandidate:
				score, breakdown = ScoreJob(req.Viewer, candidate, e.weights.Job, req.Now)
			case *PersonCandidate:
				score, breakdown = ScorePerson(req.Viewer, candidate, secondDegree, e.weights.Person, req.Now)
			case *PostCandidate:
				score, breakdown = ScorePost(req.Viewer, candidate, e.weights.Feed, req.Now)
			}

			scored[i] = ScoredCandidate{Candidate: c, Score: score, Breakdown: breakdown}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// sortScored orders by score desc, activity time desc, then id asc. The id
// tie-break yields a total order, which keeps pagination reproducible across
// calls with identical inputs.
func sortScored(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ti, tj := scored[i].Candidate.ActivityTime(), scored[j].Candidate.ActivityTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return scored[i].Candidate.CandidateID() < scored[j].Candidate.CandidateID()
	})
}

// paginate slices after sorting, never before. A zero limit means no
// truncation; offsets past the end yield an empty page.
func paginate(scored []ScoredCandidate, limit, offset int) []ScoredCandidate {
	if offset >= len(scored) {
		return []ScoredCandidate{}
	}
	rest := scored[offset:]
	if limit > 0 && limit < len(rest) {
		rest = rest[:limit]
	}
	out := make([]ScoredCandidate, len(rest))
	copy(out, rest)
	return out
}
