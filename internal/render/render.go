package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"levelwatch/internal/domain"
)

const (
	colorUp   = "#00d4a0"
	colorDown = "#ff4d6d"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<div style="background:#0a0c10;padding:24px;font-family:'Courier New',monospace;max-width:560px;margin:0 auto">
  <div style="color:#ff4d6d;font-size:11px;letter-spacing:0.15em;text-transform:uppercase;margin-bottom:6px">&#9889; Alert Triggered</div>
  <h2 style="color:#eef2ff;font-size:20px;margin:0 0 4px;font-family:monospace">{{.Ticker}} &mdash; {{.LevelName}}</h2>
  <div style="color:#5a6480;font-size:12px;margin-bottom:20px">{{.Price}} &nbsp;&middot;&nbsp; {{.Time}}</div>
  <div style="background:#111318;border:1px solid #1e2330;border-radius:8px;padding:18px;margin-bottom:16px;color:#c8d0e0;font-family:Georgia,serif;font-size:14px;line-height:1.8">{{.Analysis}}</div>
  <div style="background:#111318;border:1px solid #1e2330;border-radius:8px;padding:16px;margin-bottom:16px">
    <div style="color:#4d9fff;font-size:10px;letter-spacing:0.1em;text-transform:uppercase;margin-bottom:10px">Live Snapshot</div>
{{- if .Rows}}
{{- range .Rows}}
    <div style="display:flex;justify-content:space-between;padding:6px 0;border-bottom:1px solid #1e2330"><span style="font-family:monospace;color:#5a6480">{{.Name}}</span><span style="font-family:monospace;color:{{.Color}}">${{.Price}} ({{.Pct}})</span></div>
{{- end}}
{{- else}}
    <div style="color:#5a6480;font-family:monospace">&mdash;</div>
{{- end}}
  </div>
  <div style="color:#3a4060;font-size:11px;text-align:center">Not financial advice.</div>
</div>`))

type snapshotRow struct {
	Name  string
	Price string
	Pct   string
	Color string
}

type templateData struct {
	Ticker    string
	LevelName string
	Price     string
	Time      string
	Analysis  template.HTML
	Rows      []snapshotRow
}

// Render is pure: identical inputs produce byte-identical output. It never
// fails; every field is coerced to a string or placeholder first.
func Render(payload domain.AlertPayload, analysis string, snapshot domain.Snapshot, now time.Time) domain.Message {
	ticker := payload.Ticker()
	level := payload.LevelName()
	price := payload.Price()
	when := domain.FormatEastern(now)

	text := fmt.Sprintf("ALERT: %s hit %s at %s — %s\n\n%s", ticker, level, price, when, analysis)

	data := templateData{
		Ticker:    ticker,
		LevelName: level,
		Price:     price,
		Time:      when,
		Analysis:  analysisHTML(analysis),
		Rows:      snapshotRows(snapshot),
	}

	var html bytes.Buffer
	if err := alertTemplate.Execute(&html, data); err != nil {
		// Fixed template over plain strings; if it somehow fails, fall back
		// to the text body so delivery still carries the alert.
		html.Reset()
		html.WriteString("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}

	return domain.Message{
		Subject: fmt.Sprintf("🚨 %s hit %s — %s", ticker, level, when),
		Text:    text,
		HTML:    html.String(),
	}
}

// Newlines become line breaks in the rich form only; the text form keeps the
// analysis verbatim.
func analysisHTML(analysis string) template.HTML {
	escaped := template.HTMLEscapeString(analysis)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func snapshotRows(snapshot domain.Snapshot) []snapshotRow {
	rows := make([]snapshotRow, 0, len(snapshot))
	for _, e := range snapshot {
		color := colorUp
		if e.Pct < 0 {
			color = colorDown
		}
		rows = append(rows, snapshotRow{
			Name:  e.Instrument,
			Price: domain.FormatPrice(e.Price),
			Pct:   fmt.Sprintf("%+.2f%%", e.Pct),
			Color: color,
		})
	}
	return rows
}
