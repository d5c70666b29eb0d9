package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// RenderSWOT formats a SWOT analysis as markdown.
func RenderSWOT(s *SWOT) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SWOT Analysis: %s\n\n", s.CompanyName)
	if s.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s (compared against %d competitors)\n\n", s.Industry, s.Competitors)
	}
	section(&b, "Strengths", s.Strengths)
	section(&b, "Weaknesses", s.Weaknesses)
	section(&b, "Opportunities", s.Opportunities)
	section(&b, "Threats", s.Threats)
	fmt.Fprintf(&b, "_Generated %s_\n", s.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

// RenderCompetitorReport formats a competitor comparison as a markdown table.
func RenderCompetitorReport(r *CompetitorReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Competitor Landscape: %s\n\n", r.Industry)
	b.WriteString("| Company | Market Cap | Revenue | Margin | Growth | News Sentiment |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range r.Companies {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			c.Name,
			money(c.MarketCap),
			money(c.Revenue),
			pct(c.ProfitMargin),
			pct(c.GrowthRate),
			num(c.NewsSentiment),
		)
	}
	fmt.Fprintf(&b, "\n_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

// RenderTrendReport formats a trend digest as markdown.
func RenderTrendReport(r *TrendReport) string {
	var b strings.Builder
	title := r.Industry
	if r.Region != "" {
		if title != "" {
			title += ", "
		}
		title += r.Region
	}
	fmt.Fprintf(&b, "# Market Trends: %s\n\n", title)
	fmt.Fprintf(&b, "Trends in window: %d\n", r.TrendCount)
	if r.AverageSentiment != nil {
		fmt.Fprintf(&b, "Average sentiment: %.2f\n", *r.AverageSentiment)
	}
	b.WriteString("\n")

	if len(r.ByType) > 0 {
		b.WriteString("## By Type\n\n")
		types := make([]string, 0, len(r.ByType))
		for t := range r.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&b, "- %s: %d\n", t, r.ByType[t])
		}
		b.WriteString("\n")
	}

	section(&b, "Highlights", r.Highlights)
	fmt.Fprintf(&b, "_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("- none identified\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func money(f *float64) string {
	if f == nil {
		return "-"
	}
	switch v := *f; {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func pct(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *f*100)
}

func num(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *f)
}
