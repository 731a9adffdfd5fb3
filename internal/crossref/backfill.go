package crossref

import (
	"context"
	"errors"

	"github.com/matsen/citenet/internal/reference"
)

// BackfillStats counts what a backfill pass did.
type BackfillStats struct {
	Looked     int               `json:"looked_up"`
	References int               `json:"references_filled"`
	Citations  int               `json:"citations_filled"`
	Years      int               `json:"years_filled"`
	NotFound   int               `json:"not_found"`
	Failed     map[string]string `json:"failed,omitempty"` // DOI -> error
}

// needsBackfill reports whether a record has a DOI and a field CrossRef can fill.
func needsBackfill(r reference.Record) bool {
	return r.DOI != "" && (r.References == nil || r.TimesCited == nil || r.Year == 0)
}

// Backfill fills null references, citation counts and zero years of
// records that have a DOI. Present values are never overwritten. Lookup
// failures are collected per DOI and do not stop the pass; a cancelled
// context does. The input slice is not modified.
func (c *Client) Backfill(ctx context.Context, records []reference.Record) ([]reference.Record, BackfillStats, error) {
	out := make([]reference.Record, len(records))
	copy(out, records)
	stats := BackfillStats{Failed: map[string]string{}}

	for i := range out {
		rec := &out[i]
		if !needsBackfill(*rec) {
			continue
		}
		stats.Looked++

		w, err := c.Work(ctx, rec.DOI)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return out, stats, err
			}
			if IsNotFound(err) {
				stats.NotFound++
				continue
			}
			stats.Failed[rec.DOI] = err.Error()
			continue
		}

		if rec.References == nil {
			if refs := FormatReferences(w.Reference); refs != "" {
				rec.References = reference.StringPtr(refs)
				stats.References++
			}
		}
		if rec.TimesCited == nil && w.ReferencedByCount != nil {
			n := *w.ReferencedByCount
			rec.TimesCited = &n
			stats.Citations++
		}
		if rec.Year == 0 {
			if y := w.Created.Year(); y != 0 {
				rec.Year = y
				stats.Years++
			}
		}
	}
	return out, stats, nil
}
