package export

import (
	"fmt"
	"sort"
	"strings"

	"deliverylens/internal/metrics"
	"deliverylens/internal/normalize"
	"deliverylens/internal/pipeline"
)

// BuildProfile renders the session's analytics profile as markdown. It is a
// human-facing report, not a machine contract; the CSV and SQLite exports
// carry the data.
func BuildProfile(res *pipeline.Result, bundle *metrics.Bundle) string {
	var b strings.Builder

	b.WriteString("# Delivery Analytics Profile\n\n")
	fmt.Fprintf(&b, "Run `%s`\n\n", res.RunID)

	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(&b, "- Unified records: %s\n", fmtInt(len(res.Records)))
	for _, rep := range res.Reports {
		if rep.Failed() {
			fmt.Fprintf(&b, "- %s: FAILED, missing required column(s) %v\n", rep.Platform, rep.MissingRequired)
			continue
		}
		line := fmt.Sprintf("- %s: %s raw rows, %s kept", rep.Platform, fmtInt(rep.RawRows), fmtInt(rep.Kept))
		var notes []string
		if rep.Dropped > 0 {
			notes = append(notes, fmt.Sprintf("%d dropped", rep.Dropped))
		}
		if rep.DateRepaired {
			notes = append(notes, "dates repaired")
		}
		if rep.DateParseFailures > 0 {
			notes = append(notes, fmt.Sprintf("%d unparsable dates", rep.DateParseFailures))
		}
		if rep.RevenueParseFailures > 0 {
			notes = append(notes, fmt.Sprintf("%d unparsable revenue cells", rep.RevenueParseFailures))
		}
		if len(rep.MissingOptional) > 0 {
			notes = append(notes, fmt.Sprintf("missing optional %v", rep.MissingOptional))
		}
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if bundle == nil {
		return b.String()
	}
	s := bundle.Summary

	b.WriteString("## Headline\n\n")
	fmt.Fprintf(&b, "- Completed orders: %s\n", fmtInt(s.TotalOrders))
	fmt.Fprintf(&b, "- Total revenue: %s\n", s.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "- Average order value: %s\n", s.AOV.StringFixed(2))
	fmt.Fprintf(&b, "- Completion rate: %.1f%%\n", s.CompletionRate)
	fmt.Fprintf(&b, "- Cancellation rate: %.1f%%\n", s.CancellationRate)
	fmt.Fprintf(&b, "- Revenue growth: %.1f%%\n", s.RevenueGrowthPct)
	fmt.Fprintf(&b, "- Order growth: %.1f%%\n\n", s.OrderGrowthPct)

	if len(bundle.Platforms) > 0 {
		b.WriteString("## Platforms\n\n")
		b.WriteString("| Platform | Orders | Revenue | AOV | Share |\n")
		b.WriteString("| --- | ---: | ---: | ---: | ---: |\n")
		for _, p := range bundle.Platforms {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %.1f%% |\n",
				p.Platform, fmtInt(p.Orders), p.Revenue.StringFixed(2), p.AOV.StringFixed(2), p.MarketSharePct)
		}
		b.WriteString("\n")
	}

	writeTopStores(&b, bundle.StoreValues)
	writeChurn(&b, bundle.Churn)
	writeRFM(&b, bundle.RFM)
	writePeaks(&b, bundle.Hours, bundle.Weekdays)

	return b.String()
}

func writeTopStores(b *strings.Builder, values []metrics.StoreValue) {
	if len(values) == 0 {
		return
	}
	ranked := make([]metrics.StoreValue, len(values))
	copy(ranked, values)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	b.WriteString("## Top Stores\n\n")
	b.WriteString("| Store | Orders | Revenue | Est. Annual Value |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for _, v := range ranked {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			v.Store, fmtInt(v.Orders), v.TotalRevenue.StringFixed(2), v.EstimatedAnnualValue.StringFixed(2))
	}
	b.WriteString("\n")
}

func writeChurn(b *strings.Builder, churn metrics.ChurnReport) {
	if len(churn.Stores) == 0 {
		return
	}
	b.WriteString("## Churn\n\n")
	fmt.Fprintf(b, "- Threshold: %d days of inactivity\n", churn.ThresholdDays)
	fmt.Fprintf(b, "- Overall churn rate: %.1f%%\n", churn.OverallRate)
	for _, p := range normalize.Platforms {
		if rate, ok := churn.PlatformRates[p]; ok {
			fmt.Fprintf(b, "- %s churn rate: %.1f%%\n", p, rate)
		}
	}
	b.WriteString("\n")
}

func writeRFM(b *strings.Builder, scores []metrics.RFMScore) {
	if len(scores) == 0 {
		return
	}
	b.WriteString("## RFM Segments\n\n")
	b.WriteString("| Store | R | F | M | Segment |\n")
	b.WriteString("| --- | ---: | ---: | ---: | --- |\n")
	for _, s := range scores {
		fmt.Fprintf(b, "| %s | %d | %d | %d | %s |\n", s.Store, s.R, s.F, s.M, s.Segment)
	}
	b.WriteString("\n")
}

func writePeaks(b *strings.Builder, hours []metrics.HourBucket, weekdays []metrics.WeekdayBucket) {
	peakHour, peakHourOrders := -1, 0
	for _, h := range hours {
		if h.Orders > peakHourOrders {
			peakHour, peakHourOrders = h.Hour, h.Orders
		}
	}
	peakDay, peakDayOrders := -1, 0
	for i, d := range weekdays {
		if d.Orders > peakDayOrders {
			peakDay, peakDayOrders = i, d.Orders
		}
	}
	if peakHour < 0 && peakDay < 0 {
		return
	}
	b.WriteString("## Peaks\n\n")
	if peakHour >= 0 {
		fmt.Fprintf(b, "- Busiest hour: %02d:00 (%s orders)\n", peakHour, fmtInt(peakHourOrders))
	}
	if peakDay >= 0 {
		fmt.Fprintf(b, "- Busiest weekday: %s (%s orders)\n", weekdays[peakDay].Day, fmtInt(peakDayOrders))
	}
	b.WriteString("\n")
}

// fmtInt renders an int with thousands separators for the report.
func fmtInt(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
