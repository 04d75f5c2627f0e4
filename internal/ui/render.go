package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/telemetry"
)

// Renderer writes one-shot command output.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer for w, styled unless noColor.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	return &Renderer{w: w, styles: GetStyles(noColor)}
}

// Results renders a hybrid search result list with per-strategy breakdowns.
func (r *Renderer) Results(query string, results []search.Result, degraded []string) {
	if len(degraded) > 0 {
		fmt.Fprintln(r.w, r.styles.Warning.Render(
			fmt.Sprintf("degraded: %s", strings.Join(degraded, ", "))))
	}
	if len(results) == 0 {
		fmt.Fprintln(r.w, r.styles.Dim.Render(fmt.Sprintf("no results for %q", query)))
		return
	}

	for i, res := range results {
		fmt.Fprintf(r.w, "%s %s  %s\n",
			r.styles.Label.Render(fmt.Sprintf("%2d.", i+1)),
			r.styles.Title.Render(res.Work.Title),
			r.styles.Score.Render(fmt.Sprintf("%.3f", res.Score)))

		meta := workMeta(res)
		if meta != "" {
			fmt.Fprintf(r.w, "    %s\n", r.styles.Label.Render(meta))
		}

		b := res.Breakdown
		fmt.Fprintf(r.w, "    %s\n", r.styles.Dim.Render(fmt.Sprintf(
			"semantic %.2f · keyword %.2f · fuzzy %.2f · metadata %.2f",
			b.Semantic, b.Keyword, b.Fuzzy, b.Metadata)))
	}
}

func workMeta(res search.Result) string {
	var parts []string
	if res.Work.Year != "" {
		parts = append(parts, res.Work.Year)
	}
	if res.Work.Category != "" {
		parts = append(parts, res.Work.Category)
	}
	if len(res.Work.Medium) > 0 {
		parts = append(parts, strings.Join(res.Work.Medium, ", "))
	}
	return strings.Join(parts, " · ")
}

// Blend renders a multimodal result list with the two sub-scores.
func (r *Renderer) Blend(query string, results []search.BlendResult) {
	if len(results) == 0 {
		fmt.Fprintln(r.w, r.styles.Dim.Render(fmt.Sprintf("no results for %q", query)))
		return
	}
	for i, res := range results {
		fmt.Fprintf(r.w, "%s %s  %s %s\n",
			r.styles.Label.Render(fmt.Sprintf("%2d.", i+1)),
			r.styles.Title.Render(res.Work.Title),
			r.styles.Score.Render(fmt.Sprintf("%.3f", res.Score)),
			r.styles.Dim.Render(fmt.Sprintf("(text %.2f, image %.2f)",
				res.TextScore, res.ImageScore)))
	}
}

// Suggestions renders a suggestion list.
func (r *Renderer) Suggestions(query string, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(r.w, r.styles.Dim.Render(fmt.Sprintf("no suggestions for %q", query)))
		return
	}
	for _, s := range suggestions {
		count := ""
		if s.Count > 0 {
			count = r.styles.Dim.Render(fmt.Sprintf("  (searched %d×)", s.Count))
		}
		fmt.Fprintf(r.w, "%s %s%s\n",
			r.styles.Score.Render(fmt.Sprintf("%.2f", s.Score)),
			r.styles.Title.Render(s.Query),
			count)
	}
}

// Stats renders a telemetry snapshot.
func (r *Renderer) Stats(snap telemetry.Snapshot) {
	fmt.Fprintf(r.w, "%s %d\n", r.styles.Label.Render("total queries:"), snap.TotalQueries)

	for mode, n := range snap.ModeCounts {
		fmt.Fprintf(r.w, "  %s %d\n", r.styles.Label.Render(string(mode)+":"), n)
	}

	fmt.Fprintf(r.w, "%s %d\n", r.styles.Label.Render("zero-result queries:"), snap.ZeroResultCount)
	for _, q := range snap.ZeroResultQueries {
		fmt.Fprintf(r.w, "  %s\n", r.styles.Dim.Render(q))
	}

	if len(snap.TopTerms) > 0 {
		fmt.Fprintln(r.w, r.styles.Label.Render("top terms:"))
		for _, tc := range snap.TopTerms {
			fmt.Fprintf(r.w, "  %s %s\n",
				r.styles.Title.Render(tc.Term),
				r.styles.Dim.Render(fmt.Sprintf("%d", tc.Count)))
		}
	}
}
