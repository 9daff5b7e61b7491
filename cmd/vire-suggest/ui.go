package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bobmcallan/vire-options/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1).
			Width(76)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(18)

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	neutralStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	disclaimerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			Width(76)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// renderReport formats a suggestion response for the terminal.
func renderReport(resp *models.SuggestionResponse) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s risk", resp.StockSymbol, resp.RiskTolerance)))
	b.WriteString("\n")

	overview := []string{
		row("Price", fmt.Sprintf("%.2f (as of %s)", resp.CurrentPrice, resp.LatestDataDate)),
		row("Trend", directionStyle(resp.TrendAnalysis.Direction).Render(string(resp.TrendAnalysis.Direction))),
		row("Sentiment", fmt.Sprintf("%s (%.4f, %d articles)", sentimentStyle(resp.SentimentAnalysis.Label).Render(string(resp.SentimentAnalysis.Label)), resp.SentimentAnalysis.Score, resp.SentimentAnalysis.Articles)),
		row("Predicted change", fmt.Sprintf("%.2f%%", resp.PredictedPriceTargets.ChangePercent)),
		row("Target", optionalPrice(resp.PredictedPriceTargets.ShortTermTarget)),
	}
	b.WriteString(sectionStyle.Render(strings.Join(overview, "\n")))
	b.WriteString("\n")

	for _, s := range resp.SuggestedOptionsStrategies {
		lines := []string{
			titleStyle.Render(s.Strategy),
			row("Strike", optionalPrice(s.StrikePrice)),
			row("Expiration", optionalString(s.ExpirationDate)),
			row("Confidence", string(s.ConfidenceLevel)),
			s.Rationale,
		}
		b.WriteString(sectionStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(resp.AnalysisSummary)
	b.WriteString("\n\n")
	b.WriteString(disclaimerStyle.Render(resp.Disclaimer))

	return b.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func directionStyle(d models.TrendDirection) lipgloss.Style {
	switch d {
	case models.TrendUp:
		return upStyle
	case models.TrendDown:
		return downStyle
	}
	return neutralStyle
}

func sentimentStyle(l models.SentimentLabel) lipgloss.Style {
	switch l {
	case models.SentimentPositive:
		return upStyle
	case models.SentimentNegative:
		return downStyle
	}
	return neutralStyle
}

func optionalPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *p)
}

func optionalString(s *string) string {
	if s == nil {
		return "n/a"
	}
	return *s
}
