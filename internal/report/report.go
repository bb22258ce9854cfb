// Package report renders comparison outcomes as markdown and HTML for
// sharing outside the CLI.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"stratcheck/domain/pareto"
	"stratcheck/domain/stats"
)

// ComparisonMarkdown renders a strategy comparison table as markdown
func ComparisonMarkdown(table *stats.ComparisonTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Strategy comparison: %s (alpha=%g)\n\n", table.Metric, table.Alpha)
	b.WriteString("| Strategy A | Strategy B | Mean A | Mean B | t | p | Winner |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, c := range table.Comparisons {
		fmt.Fprintf(&b, "| %s | %s | %.6f | %.6f | %.4f | %.4g | %s |\n",
			c.StrategyA, c.StrategyB, c.MeanA, c.MeanB, c.Statistic, c.PValue, c.Winner)
	}
	return b.String()
}

// ParetoMarkdown renders a Pareto classification as markdown
func ParetoMarkdown(result *pareto.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Pareto front: %s vs %s\n\n", result.ObjectiveA, result.ObjectiveB)
	fmt.Fprintf(&b, "%d evaluated, %d on the front, %d dominated.\n\n",
		result.Evaluated, len(result.Front), len(result.Dominated))
	b.WriteString("| Strategy | " + result.ObjectiveA + " | " + result.ObjectiveB + " | Optimal |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range result.Points {
		fmt.Fprintf(&b, "| %s | %.6f | %.6f | %v |\n", p.Strategy, p.ObjectiveA, p.ObjectiveB, p.Optimal)
	}
	return b.String()
}

// RenderHTML converts a markdown report into a standalone HTML fragment
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
