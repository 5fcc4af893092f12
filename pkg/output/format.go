// Package output provides utilities for formatting and displaying KPI
// snapshots outside the HTTP API.
package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"kpidash/internal/metrics"
	"kpidash/pkg/format"
)

// PrettyFormat prints a human-readable scoreboard for the snapshot and the
// per-person rows.
func PrettyFormat(snap metrics.Snapshot, people []metrics.PersonRecord) {
	fmt.Print(PrettyString(snap, people))
}

// PrettyString renders the scoreboard tables.
func PrettyString(snap metrics.Snapshot, people []metrics.PersonRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Data source: %s", snap.Status.Source))
	if snap.Status.Error != "" {
		b.WriteString(fmt.Sprintf(" (%s)", snap.Status.Error))
	}
	b.WriteString("\n\n")

	company := table.NewWriter()
	company.SetStyle(table.StyleLight)
	company.AppendHeader(table.Row{"Metric", "Actual", "Target", "Status"})
	for _, key := range sortedRecordKeys(snap.Records) {
		rec := snap.Records[key]
		st := rec.Status()
		company.AppendRow(table.Row{
			rec.Key,
			snap.DisplayValue(key),
			format.Display(rec.Target, rec.Kind),
			st.Label,
		})
	}
	b.WriteString(company.Render())
	b.WriteString("\n")

	if len(people) > 0 {
		b.WriteString("\n")
		board := table.NewWriter()
		board.SetStyle(table.StyleLight)
		board.AppendHeader(table.Row{"Name", "Department", "Metric", "Actual", "Target", "Status"})
		for _, p := range people {
			st := p.Status()
			board.AppendRow(table.Row{
				p.Name,
				p.Department,
				p.MetricName,
				format.Format(p.Actual, p.Kind),
				format.Display(p.Target, p.Kind),
				st.Label,
			})
		}
		b.WriteString(board.Render())
		b.WriteString("\n")
	}

	return b.String()
}

// CsvFormat prints the snapshot in comma-separated value format.
func CsvFormat(snap metrics.Snapshot) {
	fmt.Print(CsvString(snap))
}

// CsvString renders the snapshot as CSV with raw and display values.
func CsvString(snap metrics.Snapshot) string {
	var b strings.Builder
	b.WriteString(`"metric","actual","target","actual_display","target_display","status","label"` + "\n")
	for _, key := range sortedRecordKeys(snap.Records) {
		rec := snap.Records[key]
		st := rec.Status()
		b.WriteString(fmt.Sprintf("%q,%s,%s,%q,%q,%q,%q\n",
			rec.Key,
			csvNumber(rec.Actual),
			csvNumber(rec.Target),
			snap.DisplayValue(key),
			format.Display(rec.Target, rec.Kind),
			st.Tier.String(),
			st.Label,
		))
	}
	return b.String()
}

func csvNumber(v *float64) string {
	if v == nil {
		return `""`
	}
	return fmt.Sprintf(`"%g"`, *v)
}

func sortedRecordKeys(records map[string]metrics.Record) []string {
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
