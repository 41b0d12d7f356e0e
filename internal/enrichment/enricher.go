// Package enrichment refreshes stored programs with model-researched
// details and saves progress to the program snapshot.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"find-usce-backend/internal/metrics"
	"find-usce-backend/internal/models"
	"find-usce-backend/internal/repo"
)

const dateLayout = "2006-01-02"

type Outcome string

const (
	OutcomeEnriched  Outcome = "enriched"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// Generator is the slice of genai.Models the enricher calls
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Options struct {
	ModelID string
	// BatchSize requests are allowed per BatchDelay
	BatchSize  int
	BatchDelay time.Duration
	SaveEvery  int
	Workers    int
}

type Summary struct {
	Total     int
	Enriched  int
	Unchanged int
	Failed    int
}

type Enricher struct {
	gen     Generator
	store   repo.SnapshotStore
	opts    Options
	limiter *rate.Limiter
	config  *genai.GenerateContentConfig
	log     *zap.Logger

	// now is swapped in tests
	now func() time.Time
}

func New(gen Generator, store repo.SnapshotStore, opts Options, log *zap.Logger) (*Enricher, error) {
	if opts.ModelID == "" {
		return nil, errors.New("enrichment: model id is required")
	}
	if opts.BatchSize < 1 || opts.SaveEvery < 1 || opts.Workers < 1 {
		return nil, fmt.Errorf("enrichment: batch size, save interval and workers must be positive: %+v", opts)
	}

	limit := rate.Inf
	if opts.BatchDelay > 0 {
		limit = rate.Every(opts.BatchDelay / time.Duration(opts.BatchSize))
	}

	return &Enricher{
		gen:     gen,
		store:   store,
		opts:    opts,
		limiter: rate.NewLimiter(limit, opts.BatchSize),
		config: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
		log: log,
		now: time.Now,
	}, nil
}

// Run enriches every stored program in source order. Progress is written
// back after every SaveEvery programs and once at the end; a cancelled ctx
// stops the run after the last saved checkpoint.
func (e *Enricher) Run(ctx context.Context) (Summary, error) {
	programs, err := e.store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load programs: %w", err)
	}

	summary := Summary{Total: len(programs)}
	e.log.Info("starting enrichment", zap.Int("programs", len(programs)), zap.Int("workers", e.opts.Workers))

	updated := make([]models.Program, len(programs))
	copy(updated, programs)
	outcomes := make([]Outcome, len(programs))

	for start := 0; start < len(programs); start += e.opts.SaveEvery {
		end := min(start+e.opts.SaveEvery, len(programs))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Workers)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := e.limiter.Wait(gctx); err != nil {
					return err
				}
				e.log.Debug("processing program",
					zap.Int("index", i+1),
					zap.Int("total", len(programs)),
					zap.String("name", programs[i].Name))
				p, outcome, err := e.enrichOne(gctx, programs[i])
				if err != nil {
					return err
				}
				updated[i], outcomes[i] = p, outcome
				return nil
			})
		}
		err := g.Wait()
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return summary, fmt.Errorf("enrichment interrupted after %d programs: %w", start, err)
		}

		for _, o := range outcomes[start:end] {
			metrics.EnrichedPrograms.WithLabelValues(string(o)).Inc()
			switch o {
			case OutcomeEnriched:
				summary.Enriched++
			case OutcomeUnchanged:
				summary.Unchanged++
			case OutcomeFailed:
				summary.Failed++
			}
		}

		// unprocessed records keep their stored values
		if err := e.store.Save(ctx, updated); err != nil {
			return summary, fmt.Errorf("save progress: %w", err)
		}
		e.log.Info("saved progress", zap.Int("processed", end), zap.Int("total", len(programs)))
	}

	e.log.Info("enrichment complete",
		zap.Int("enriched", summary.Enriched),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// enrichOne only errors when ctx ends. A broken reply refreshes
// lastVerified and nothing else.
func (e *Enricher) enrichOne(ctx context.Context, p models.Program) (models.Program, Outcome, error) {
	today := e.now().UTC().Format(dateLayout)

	contents := []*genai.Content{genai.NewContentFromText(BuildPrompt(p), genai.RoleUser)}
	resp, err := e.gen.GenerateContent(ctx, e.opts.ModelID, contents, e.config)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return p, "", ctxErr
	}
	if err != nil {
		updated, outcome := e.failed(p, today, err)
		return updated, outcome, nil
	}

	patch, err := ParsePatch(resp.Text())
	if errors.Is(err, ErrNoJSONObject) {
		return p, OutcomeUnchanged, nil
	}
	if err != nil {
		updated, outcome := e.failed(p, today, err)
		return updated, outcome, nil
	}

	return Merge(p, patch, today), OutcomeEnriched, nil
}

func (e *Enricher) failed(p models.Program, today string, err error) (models.Program, Outcome) {
	e.log.Warn("could not enrich program", zap.String("id", p.ID), zap.String("name", p.Name), zap.Error(err))
	p.LastVerified = today
	return p, OutcomeFailed
}
