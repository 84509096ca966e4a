package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	// Embedded tz database so Eastern-time formatting works on hosts
	// without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Instrument maps a display name to its market-data symbol.
type Instrument struct {
	Name   string
	Symbol string
}

// Instruments is the fixed snapshot universe. Order here is render order.
var Instruments = []Instrument{
	{Name: "ES", Symbol: "ES=F"},
	{Name: "YM", Symbol: "YM=F"},
	{Name: "NQ", Symbol: "NQ=F"},
	{Name: "VIX", Symbol: "^VIX"},
}

type SnapshotEntry struct {
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
	Pct        float64 `json:"pct"`
}

// Snapshot holds best-effort price/percent-change pairs in Instruments order.
// Instruments whose fetch failed are simply absent; empty is not an error.
type Snapshot []SnapshotEntry

// AlertPayload is the raw webhook body. No schema is enforced beyond the
// secret check; the accessors coerce whatever the caller sent to a display
// string and fall back to a placeholder when a field is missing or blank.
type AlertPayload map[string]any

func (p AlertPayload) Secret() string    { return p.field("secret", "") }
func (p AlertPayload) Ticker() string    { return p.field("ticker", "Unknown") }
func (p AlertPayload) Price() string     { return p.field("price", "Unknown") }
func (p AlertPayload) LevelName() string { return p.field("level_name", "key level") }
func (p AlertPayload) Direction() string { return p.field("direction", "hit") }
func (p AlertPayload) Note() string      { return p.field("note", "") }

func (p AlertPayload) field(key, fallback string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return fallback
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// FormatPrice renders v with two decimals and thousands separators,
// e.g. 5412.25 -> "5,412.25".
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String() + "." + frac
}

// Message is a rendered notification in both delivery formats.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata missing from the host; close enough for display.
		return time.FixedZone("ET", -5*60*60)
	}
	return loc
}()

// FormatEastern renders t as the wall-clock string used in prompts, subject
// lines and the health endpoint, e.g. "09:30 AM ET".
func FormatEastern(t time.Time) string {
	return t.In(eastern).Format("03:04 PM") + " ET"
}
