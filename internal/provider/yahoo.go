package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"levelwatch/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	maxBodyBytes   = 10 * 1024 * 1024

	// Yahoo rejects Go's default User-Agent.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// YahooProvider pulls intraday 5m series from the Yahoo Finance chart API and
// reduces each to a price / percent-change-from-open pair.
type YahooProvider struct {
	tracer  trace.Tracer
	client  *http.Client
	baseURL string
}

func NewYahooProvider(tracer trace.Tracer, timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		tracer:  tracer,
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchSnapshot queries every instrument independently, one attempt each.
// Failed instruments are logged and skipped; the batch itself never fails.
func (p *YahooProvider) FetchSnapshot(ctx context.Context) domain.Snapshot {
	ctx, span := p.tracer.Start(ctx, "provider.fetch-snapshot")
	defer span.End()

	snapshot := make(domain.Snapshot, 0, len(domain.Instruments))
	for _, inst := range domain.Instruments {
		entry, err := p.fetchInstrument(ctx, inst)
		if err != nil {
			log.Printf("snapshot %s: %v", inst.Name, err)
			continue
		}
		snapshot = append(snapshot, entry)
	}
	span.SetAttributes(attribute.Int("snapshot.instruments", len(snapshot)))
	return snapshot
}

func (p *YahooProvider) fetchInstrument(ctx context.Context, inst domain.Instrument) (domain.SnapshotEntry, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=5m", p.baseURL, url.PathEscape(inst.Symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.SnapshotEntry{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.SnapshotEntry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SnapshotEntry{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.SnapshotEntry{}, err
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return domain.SnapshotEntry{}, fmt.Errorf("decode chart: %w", err)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return domain.SnapshotEntry{}, fmt.Errorf("no chart data")
	}

	quote := chart.Chart.Result[0].Indicators.Quote[0]
	open, ok := firstValue(quote.Open)
	if !ok || open == 0 {
		return domain.SnapshotEntry{}, fmt.Errorf("no opening price")
	}
	price, ok := lastValue(quote.Close)
	if !ok {
		return domain.SnapshotEntry{}, fmt.Errorf("no closing price")
	}

	return domain.SnapshotEntry{
		Instrument: inst.Name,
		Price:      price,
		Pct:        (price - open) / open * 100,
	}, nil
}

func firstValue(series []*float64) (float64, bool) {
	for _, v := range series {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func lastValue(series []*float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return *series[i], true
		}
	}
	return 0, false
}
