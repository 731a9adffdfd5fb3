package author

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/citenet/internal/reference"
)

// ListSeparator separates names in an Authors cell.
const ListSeparator = ","

// ParseList splits an Authors cell into trimmed, non-empty names. Order and
// duplicates are preserved.
func ParseList(cell string) []string {
	var names []string
	for _, part := range strings.Split(cell, ListSeparator) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HIndex returns the largest h such that h of the counts are at least h.
func HIndex(citations []int) int {
	sorted := sortedDesc(citations)
	h := 0
	for i, c := range sorted {
		if c >= i+1 {
			h = i + 1
		}
	}
	return h
}

// GIndex returns the largest g such that the top g counts sum to at least g².
func GIndex(citations []int) int {
	sorted := sortedDesc(citations)
	total, g := 0, 0
	for i, c := range sorted {
		total += c
		if total >= (i+1)*(i+1) {
			g = i + 1
		}
	}
	return g
}

func sortedDesc(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Stats holds the productivity metrics of one author.
type Stats struct {
	Author           string  `json:"author"`
	Articles         int     `json:"articles"`
	TotalCitations   int     `json:"total_citations"`
	AverageCitations float64 `json:"average_citations"`
	HIndex           int     `json:"h_index"`
	GIndex           int     `json:"g_index"`
}

// Productivity computes per-author metrics. Each record counts once for every
// author listed on it; a missing citation count counts as zero. Results are
// sorted by author name.
func Productivity(records []reference.Record) []Stats {
	cites := make(map[string][]int)
	for _, r := range records {
		c := 0
		if r.TimesCited != nil {
			c = *r.TimesCited
		}
		for _, name := range ParseList(r.Authors) {
			cites[name] = append(cites[name], c)
		}
	}

	out := make([]Stats, 0, len(cites))
	for name, cs := range cites {
		total := 0
		for _, c := range cs {
			total += c
		}
		out = append(out, Stats{
			Author:           name,
			Articles:         len(cs),
			TotalCitations:   total,
			AverageCitations: float64(total) / float64(len(cs)),
			HIndex:           HIndex(cs),
			GIndex:           GIndex(cs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out
}

// Ranking metrics for TopBy.
const (
	ByArticles = "articles"
	ByTotal    = "total"
	ByAverage  = "average"
	ByH        = "h"
	ByG        = "g"
)

// RankingMetrics lists the valid TopBy metrics.
var RankingMetrics = []string{ByArticles, ByTotal, ByAverage, ByH, ByG}

// TopBy returns the n authors with the highest value of a metric. Ties keep
// name order.
func TopBy(stats []Stats, metric string, n int) ([]Stats, error) {
	var key func(Stats) float64
	switch metric {
	case ByArticles:
		key = func(s Stats) float64 { return float64(s.Articles) }
	case ByTotal:
		key = func(s Stats) float64 { return float64(s.TotalCitations) }
	case ByAverage:
		key = func(s Stats) float64 { return s.AverageCitations }
	case ByH:
		key = func(s Stats) float64 { return float64(s.HIndex) }
	case ByG:
		key = func(s Stats) float64 { return float64(s.GIndex) }
	default:
		return nil, fmt.Errorf("invalid ranking metric %q: must be one of %v", metric, RankingMetrics)
	}

	out := make([]Stats, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Summary describes the citation coverage of a dataset.
type Summary struct {
	UniqueAuthors    int      `json:"unique_authors"`
	TotalCitations   int      `json:"total_citations"`
	AverageCitations float64  `json:"average_citations"`
	Articles         int      `json:"articles"`
	MissingCitations []string `json:"missing_citations"` // titles without a citation count
}

// Summarize computes dataset-level figures. The average is taken over records
// that carry a citation count.
func Summarize(records []reference.Record) Summary {
	s := Summary{Articles: len(records), MissingCitations: []string{}}
	names := make(map[string]bool)
	counted := 0
	for _, r := range records {
		for _, name := range ParseList(r.Authors) {
			names[name] = true
		}
		if r.TimesCited == nil {
			s.MissingCitations = append(s.MissingCitations, r.Title)
			continue
		}
		s.TotalCitations += *r.TimesCited
		counted++
	}
	s.UniqueAuthors = len(names)
	if counted > 0 {
		s.AverageCitations = float64(s.TotalCitations) / float64(counted)
	}
	return s
}
