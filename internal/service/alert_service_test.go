package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"levelwatch/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTime = time.Date(2024, 6, 3, 18, 30, 0, 0, time.UTC)

type stubProvider struct {
	snapshot domain.Snapshot
	calls    int
}

func (s *stubProvider) FetchSnapshot(ctx context.Context) domain.Snapshot {
	s.calls++
	return s.snapshot
}

type stubGenerator struct {
	analysis string
	err      error
	calls    int

	lastPayload  domain.AlertPayload
	lastSnapshot domain.Snapshot
	lastNow      time.Time
}

func (s *stubGenerator) Generate(ctx context.Context, payload domain.AlertPayload, snapshot domain.Snapshot, now time.Time) (string, error) {
	s.calls++
	s.lastPayload = payload
	s.lastSnapshot = snapshot
	s.lastNow = now
	if s.err != nil {
		return "", s.err
	}
	return s.analysis, nil
}

type stubNotifier struct {
	err     error
	calls   int
	lastMsg domain.Message
}

func (s *stubNotifier) Notify(ctx context.Context, msg domain.Message) error {
	s.calls++
	s.lastMsg = msg
	if s.err != nil {
		return s.err
	}
	return nil
}

func newTestService(p *stubProvider, g *stubGenerator, notifiers ...Notifier) *AlertService {
	svc := NewAlertService(trace.NewNoopTracerProvider().Tracer("test"), p, g, notifiers...)
	svc.now = func() time.Time { return testTime }
	return svc
}

func TestProcessDispatchesExactlyOnce(t *testing.T) {
	provider := &stubProvider{snapshot: domain.Snapshot{{Instrument: "ES", Price: 5412.25, Pct: 0.42}}}
	generator := &stubGenerator{analysis: "ES holding above PDH."}
	notifier := &stubNotifier{}
	svc := newTestService(provider, generator, notifier)

	payload := domain.AlertPayload{"ticker": "ES1!", "level_name": "PDH"}
	if err := svc.Process(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls != 1 || generator.calls != 1 || notifier.calls != 1 {
		t.Fatalf("unexpected call counts: provider=%d generator=%d notifier=%d",
			provider.calls, generator.calls, notifier.calls)
	}
	if !strings.Contains(notifier.lastMsg.Subject, "ES1!") || !strings.Contains(notifier.lastMsg.Subject, "PDH") {
		t.Fatalf("subject missing alert fields: %q", notifier.lastMsg.Subject)
	}
	if !strings.Contains(notifier.lastMsg.Text, "ES holding above PDH.") {
		t.Fatalf("text body missing analysis: %q", notifier.lastMsg.Text)
	}
	if !generator.lastNow.Equal(testTime) {
		t.Fatalf("generator got wrong clock: %v", generator.lastNow)
	}
}

func TestProcessEmptySnapshotStillProceeds(t *testing.T) {
	provider := &stubProvider{}
	generator := &stubGenerator{analysis: "No market context available."}
	notifier := &stubNotifier{}
	svc := newTestService(provider, generator, notifier)

	if err := svc.Process(context.Background(), domain.AlertPayload{"ticker": "NQ1!"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generator.calls != 1 {
		t.Fatal("generator must run even with an empty snapshot")
	}
	if len(generator.lastSnapshot) != 0 {
		t.Fatalf("expected empty snapshot passed through, got %d entries", len(generator.lastSnapshot))
	}
	if notifier.calls != 1 {
		t.Fatalf("expected dispatch, got %d calls", notifier.calls)
	}
}

func TestProcessGeneratorFailureSkipsDispatch(t *testing.T) {
	provider := &stubProvider{}
	generator := &stubGenerator{err: errors.New("model overloaded")}
	notifier := &stubNotifier{}
	svc := newTestService(provider, generator, notifier)

	err := svc.Process(context.Background(), domain.AlertPayload{})
	if err == nil {
		t.Fatal("expected generation error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected underlying error preserved, got %v", err)
	}
	if notifier.calls != 0 {
		t.Fatalf("no message may be sent after a failed analysis, got %d sends", notifier.calls)
	}
}

func TestProcessNotifierFailurePropagates(t *testing.T) {
	svc := newTestService(&stubProvider{}, &stubGenerator{analysis: "x"}, &stubNotifier{err: errors.New("smtp timeout")})

	err := svc.Process(context.Background(), domain.AlertPayload{})
	if err == nil || !strings.Contains(err.Error(), "smtp timeout") {
		t.Fatalf("expected dispatch error, got %v", err)
	}
}

func TestProcessStopsAtFirstFailedChannel(t *testing.T) {
	first := &stubNotifier{err: errors.New("down")}
	second := &stubNotifier{}
	svc := newTestService(&stubProvider{}, &stubGenerator{analysis: "x"}, first, second)

	if err := svc.Process(context.Background(), domain.AlertPayload{}); err == nil {
		t.Fatal("expected error from first channel")
	}
	if second.calls != 0 {
		t.Fatalf("second channel should not be attempted, got %d calls", second.calls)
	}
}

func TestProcessRequiresCollaborators(t *testing.T) {
	svc := NewAlertService(trace.NewNoopTracerProvider().Tracer("test"), nil, nil)
	if err := svc.Process(context.Background(), domain.AlertPayload{}); err == nil {
		t.Fatal("expected initialization error")
	}
}
