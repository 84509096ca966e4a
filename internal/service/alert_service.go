package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"levelwatch/internal/domain"
	"levelwatch/internal/render"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context) domain.Snapshot
}

type AnalysisGenerator interface {
	Generate(ctx context.Context, payload domain.AlertPayload, snapshot domain.Snapshot, now time.Time) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, msg domain.Message) error
}

// AlertService runs one authenticated alert through snapshot, analysis,
// rendering and dispatch, strictly in that order. A generation failure aborts
// before any message is sent.
type AlertService struct {
	tracer    trace.Tracer
	provider  SnapshotProvider
	generator AnalysisGenerator
	notifiers []Notifier

	now func() time.Time
}

func NewAlertService(
	tracer trace.Tracer,
	provider SnapshotProvider,
	generator AnalysisGenerator,
	notifiers ...Notifier,
) *AlertService {
	return &AlertService{
		tracer:    tracer,
		provider:  provider,
		generator: generator,
		notifiers: notifiers,
		now:       time.Now,
	}
}

func (s *AlertService) Process(ctx context.Context, payload domain.AlertPayload) error {
	ctx, span := s.tracer.Start(ctx, "alert-service.process")
	defer span.End()

	if s.provider == nil || s.generator == nil || len(s.notifiers) == 0 {
		return fmt.Errorf("alert service is not fully initialized")
	}

	// One wall-clock read feeds the prompt, the subject and both bodies.
	now := s.now()

	snapshot := s.provider.FetchSnapshot(ctx)
	span.SetAttributes(attribute.Int("snapshot.instruments", len(snapshot)))

	analysis, err := s.generator.Generate(ctx, payload, snapshot, now)
	if err != nil {
		return fmt.Errorf("generate analysis: %w", err)
	}

	msg := render.Render(payload, analysis, snapshot, now)

	for _, n := range s.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			return fmt.Errorf("dispatch alert: %w", err)
		}
	}

	log.Printf("alert dispatched: %s %s", payload.Ticker(), payload.LevelName())
	return nil
}
