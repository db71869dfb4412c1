package http

import (
	"context"

	"paylens/internal/analytics"
	"paylens/internal/pipeline"
	"paylens/pkg/contracts/domain"
)

// PipelineService is the surface the handlers need from the pipeline
// store; narrowed to an interface so handler tests can mock it.
type PipelineService interface {
	ProcessFiles(ctx context.Context, inputs []pipeline.Input) error
	Reset()
	Records() []domain.Record
	Metrics() domain.Metrics
	DateRange() domain.DateRange
	LastError() string
	Monthly() []domain.MonthlyAggregation
	TopEntities(scope analytics.EntityScope, limit int) []domain.EntityPerformance
	Distribution(by analytics.DistributionBy) []domain.DistributionEntry
	InvalidateRates()
}
