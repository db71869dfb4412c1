package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"paylens/internal/analytics"
	"paylens/internal/currency"
	"paylens/internal/parser"
	"paylens/pkg/contracts/domain"
)

// Input is one uploaded report file.
type Input struct {
	Name   string
	Reader io.Reader
}

// Store owns the session-scoped record sequence and its derived views.
// Records are immutable once consolidated; a new processing run replaces
// the sequence wholesale, and Reset clears everything except the exchange
// rate cache, which only an explicit invalidation removes.
type Store struct {
	logger *slog.Logger
	rates  *currency.Client

	mu        sync.RWMutex
	records   []domain.Record
	metrics   domain.Metrics
	dateRange domain.DateRange
	loading   bool
	lastErr   string
}

// NewStore creates a session store backed by the given rate client.
func NewStore(rates *currency.Client, logger *slog.Logger) *Store {
	return &Store{
		logger: logger.With(slog.String("component", "pipeline_store")),
		rates:  rates,
	}
}

// ProcessFiles runs the full pipeline: filter unsupported files, fetch
// rates best-effort, parse all files concurrently, consolidate, and
// recompute the metrics snapshot and date range. A parse failure aborts
// the whole run and leaves the previous record set untouched.
func (s *Store) ProcessFiles(ctx context.Context, inputs []Input) error {
	start := time.Now()
	runID := uuid.New().String()
	log := s.logger.With(slog.String("run_id", runID))

	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		processDuration.Observe(time.Since(start).Seconds())
	}()

	// Unsupported extensions are dropped from the selection up front
	// rather than failing the batch.
	supported := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if !parser.Supported(in.Name) {
			filesSkipped.Inc()
			log.Warn("skipping unsupported file", slog.String("file", in.Name))
			continue
		}
		supported = append(supported, in)
	}

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		rateFetchFailures.Inc()
		log.Warn("failed to fetch exchange rates, proceeding without conversion",
			slog.String("error", err.Error()))
		rates = nil
	}

	// Parse every file before consolidation starts; the input to
	// consolidation is the full set, not a stream.
	fileRows := make([][]parser.RawRow, len(supported))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range supported {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := parser.ParseFile(in.Name, in.Reader)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			fileRows[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		parseFailures.Inc()
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		log.Error("file processing failed", slog.String("error", err.Error()))
		return err
	}

	records := Consolidate(fileRows, rates)
	metrics := analytics.Compute(records)
	dateRange := analytics.DateRange(records)

	s.mu.Lock()
	s.records = records
	s.metrics = metrics
	s.dateRange = dateRange
	s.mu.Unlock()

	filesProcessed.Add(float64(len(supported)))
	log.Info("files processed",
		slog.Int("files", len(supported)),
		slog.Int("skipped", len(inputs)-len(supported)),
		slog.Int("records", len(records)),
		slog.Bool("converted", rates != nil),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Reset clears records, metrics, date range and error state. The rate
// cache survives deliberately; rates are expensive to refetch.
func (s *Store) Reset() {
	s.mu.Lock()
	s.records = nil
	s.metrics = domain.Metrics{}
	s.dateRange = domain.DateRange{}
	s.lastErr = ""
	s.mu.Unlock()
	s.logger.Info("session state reset")
}

// Records returns the canonical record sequence. Callers must treat it as
// read-only; records are never mutated after consolidation.
func (s *Store) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Metrics returns the current KPI snapshot.
func (s *Store) Metrics() domain.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// DateRange returns the derived min/max record dates.
func (s *Store) DateRange() domain.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dateRange
}

// Loading reports whether a processing run is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the error message of the last failed run, empty when
// the last run succeeded.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Monthly recomputes the monthly rollup from the current records.
func (s *Store) Monthly() []domain.MonthlyAggregation {
	return analytics.Monthly(s.Records())
}

// TopEntities recomputes an entity ranking from the current records.
func (s *Store) TopEntities(scope analytics.EntityScope, limit int) []domain.EntityPerformance {
	return analytics.TopEntities(s.Records(), scope, limit)
}

// Distribution recomputes a TPV distribution from the current records.
func (s *Store) Distribution(by analytics.DistributionBy) []domain.DistributionEntry {
	return analytics.Distribution(s.Records(), by)
}

// InvalidateRates drops the cached exchange rate table.
func (s *Store) InvalidateRates() {
	s.rates.InvalidateCache()
}
