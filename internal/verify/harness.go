package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
)

// ErrEmptyBaseline aborts a run whose initial top-N read returned nothing.
var ErrEmptyBaseline = errors.New("initial leaderboard is empty")

// Harness runs the select, submit, settle, verify pipeline against a
// leaderboard service. Each Run owns its subjects, ledger and snapshots.
type Harness struct {
	client     leaderboard.Client
	config     *Config
	logger     *slog.Logger
	waiter     *Waiter
	reconciler Reconciler
	seed       uint64
	rng        *rand.Rand
}

// Option customizes a Harness.
type Option func(*Harness)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithProgress observes settlement progress at the configured tick interval.
func WithProgress(fn func(elapsed, remaining time.Duration)) Option {
	return func(h *Harness) {
		h.waiter.OnTick = fn
	}
}

// New creates a harness. config must be complete; see DefaultConfig and Merge.
func New(client leaderboard.Client, config *Config, opts ...Option) (*Harness, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	h := &Harness{
		client:     client,
		config:     config,
		logger:     slog.New(slog.DiscardHandler),
		waiter:     &Waiter{Tick: config.TickInterval},
		reconciler: Reconciler{TopN: config.TopN},
		seed:       seed,
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.waiter.OnTick == nil {
		h.waiter.OnTick = func(elapsed, remaining time.Duration) {
			h.logger.Debug("settling", "elapsed", elapsed.Round(time.Second), "remaining", remaining.Round(time.Second))
		}
	}

	return h, nil
}

// submission is one planned score for a subject.
type submission struct {
	score int
	mode  leaderboard.GameMode
}

// Run executes one verification run. It always returns a report; the error
// is non-nil only when the run aborted.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	cfg := h.config
	report := &Report{
		Summary:      Aggregate(nil),
		RunID:        uuid.NewString(),
		TopN:         cfg.TopN,
		Seed:         h.seed,
		Subjects:     []Subject{},
		SettleWindow: cfg.SettleWindow(),
		StartedAt:    time.Now(),
	}
	defer func() {
		report.FinishedAt = time.Now()
	}()

	log := h.logger.With("run_id", report.RunID)

	// 1. Baseline snapshot
	log.Info("fetching initial leaderboard", "top_n", cfg.TopN)
	entries, err := h.client.Top(ctx, cfg.TopN)
	if err != nil {
		return h.abort(log, report, fmt.Errorf("%w: %w", ErrEmptyBaseline, err))
	}

	if len(entries) == 0 {
		return h.abort(log, report, ErrEmptyBaseline)
	}

	report.Initial = NewSnapshot(entries, time.Now())

	// 2. Subjects outside the current leaders
	ids := Select(h.rng, cfg.Subjects, report.Initial.UserIDs(), cfg.IDRange)
	if len(ids) < cfg.Subjects {
		log.Warn("selected fewer subjects than requested", "requested", cfg.Subjects, "selected", len(ids))
	}
	log.Info("selected subjects", "ids", ids)

	lookups := pacer(cfg.LookupDelay)
	for _, id := range ids {
		subject, err := h.baseline(ctx, lookups, id)
		if err != nil {
			if ctx.Err() != nil {
				return h.abort(log, report, ctx.Err())
			}

			log.Warn("baseline lookup failed, excluding subject", "user_id", id, "err", err)
			report.Excluded = append(report.Excluded, Exclusion{SubjectID: id, Phase: PhaseBaseline, Reason: err.Error()})
			continue
		}

		log.Info("baseline", "user_id", id, "total_score", subject.BaselineTotal, "rank", subject.BaselineRank, "ranked", subject.Ranked)
		report.Subjects = append(report.Subjects, subject)
	}

	// 3. Submissions
	tracker := NewTracker()
	plans := h.plan(report.Subjects)

	report.SubmitStart = time.Now()
	failures := h.submitAll(ctx, log, report.Subjects, plans, tracker)
	report.SubmitEnd = time.Now()

	if err := ctx.Err(); err != nil {
		return h.abort(log, report, err)
	}

	usable := make([]Subject, 0, len(report.Subjects))
	for i, subject := range report.Subjects {
		if failures[i] != nil {
			report.Excluded = append(report.Excluded, Exclusion{SubjectID: subject.ID, Phase: PhaseSubmit, Reason: failures[i].Error()})
			continue
		}

		usable = append(usable, subject)
	}
	log.Info("submissions complete", "usable", len(usable), "excluded", len(report.Excluded))

	// 4. Settlement
	log.Info("waiting for batch recalculation", "batch_interval", cfg.BatchInterval, "window", report.SettleWindow)
	if err := h.waiter.Wait(ctx, report.SettleWindow); err != nil {
		return h.abort(log, report, err)
	}

	// 5. Verification
	report.VerifiedAt = time.Now()
	final, finalErr := h.client.Top(ctx, cfg.TopN)
	if finalErr != nil {
		log.Warn("final leaderboard unavailable", "err", finalErr)
	} else {
		report.Final = NewSnapshot(final, time.Now())
	}

	verdicts := make([]Verdict, 0, len(usable))
	for _, subject := range usable {
		if err := lookups.Wait(ctx); err != nil {
			report.Summary = Aggregate(verdicts)
			return h.abort(log, report, err)
		}

		standing, err := h.client.RankOf(ctx, subject.ID)
		verdict := h.reconciler.Reconcile(ReconcileInput{
			Subject:   subject,
			Submitted: tracker.TotalSubmitted(subject.ID),
			Initial:   report.Initial,
			Final:     report.Final,
			FinalErr:  finalErr,
			Standing:  standing,
			LookupErr: err,
		})

		if verdict.Pass {
			log.Info("verdict", "user_id", subject.ID, "pass", true, "expected_total", verdict.ExpectedTotal, "rank", verdict.ObservedRank)
		} else {
			log.Warn("verdict", "user_id", subject.ID, "pass", false, "failures", verdict.Failures)
		}

		if verdict.MembershipDrift {
			log.Info("top-N membership differs from pre-run prediction", "user_id", subject.ID,
				"expected_in_top_n", verdict.ExpectedInTopN, "in_top_n", verdict.InTopN)
		}

		verdicts = append(verdicts, verdict)
	}

	report.Summary = Aggregate(verdicts)
	log.Info("run complete", "passed", report.Passed, "failed", report.Failed, "total", report.Total)

	return report, nil
}

// baseline reads a subject's pre-run standing. Users without a score start at zero.
func (h *Harness) baseline(ctx context.Context, pace *rate.Limiter, id int) (Subject, error) {
	if err := pace.Wait(ctx); err != nil {
		return Subject{}, err
	}

	standing, err := h.client.RankOf(ctx, id)
	if errors.Is(err, leaderboard.ErrNotFound) {
		return Subject{ID: id}, nil
	}

	if err != nil {
		return Subject{}, err
	}

	return Subject{ID: id, BaselineTotal: standing.TotalScore, BaselineRank: standing.Rank, Ranked: true}, nil
}

// plan assigns scores round-robin and game modes at random, before any
// submission goroutine starts.
func (h *Harness) plan(subjects []Subject) [][]submission {
	cfg := h.config

	plans := make([][]submission, len(subjects))
	for i := range subjects {
		for j := range cfg.SubmissionsPerSubject {
			plans[i] = append(plans[i], submission{
				score: cfg.Scores[(i+j)%len(cfg.Scores)],
				mode:  cfg.GameModes[h.rng.IntN(len(cfg.GameModes))],
			})
		}
	}

	return plans
}

// submitAll submits every plan and returns the failure per subject. All
// submissions have finished when it returns.
func (h *Harness) submitAll(ctx context.Context, log *slog.Logger, subjects []Subject, plans [][]submission, tracker *Tracker) []error {
	pace := pacer(h.config.SubmitDelay)
	failures := make([]error, len(subjects))

	if !h.config.Parallel {
		for i, subject := range subjects {
			failures[i] = h.submitSubject(ctx, log, pace, subject.ID, plans[i], tracker)
		}

		return failures
	}

	var g errgroup.Group
	g.SetLimit(h.config.MaxInFlight)

	for i, subject := range subjects {
		g.Go(func() error {
			failures[i] = h.submitSubject(ctx, log, pace, subject.ID, plans[i], tracker)
			return nil
		})
	}

	g.Wait()
	return failures
}

func (h *Harness) submitSubject(ctx context.Context, log *slog.Logger, pace *rate.Limiter, id int, plan []submission, tracker *Tracker) error {
	for n, s := range plan {
		if err := pace.Wait(ctx); err != nil {
			return err
		}

		if err := h.client.Submit(ctx, id, s.score, s.mode); err != nil {
			log.Warn("submission failed, excluding subject", "user_id", id, "score", s.score, "game_mode", s.mode, "err", err)
			return fmt.Errorf("submission %d of %d: %w", n+1, len(plan), err)
		}

		tracker.Record(id, s.score)
		log.Info("submitted score", "user_id", id, "score", s.score, "game_mode", s.mode)
	}

	return nil
}

func (h *Harness) abort(log *slog.Logger, report *Report, err error) (*Report, error) {
	report.Aborted = err.Error()
	log.Error("run aborted", "err", err)

	return report, err
}

// pacer spaces calls by delay; the first call is never delayed.
func pacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(delay), 1)
}
