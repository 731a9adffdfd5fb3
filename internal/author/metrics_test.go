package author

import (
	"reflect"
	"testing"

	"github.com/matsen/citenet/internal/reference"
)

func intPtr(n int) *int { return &n }

func TestParseList(t *testing.T) {
	tests := []struct {
		cell string
		want []string
	}{
		{"Smith J, Doe A", []string{"Smith J", "Doe A"}},
		{" Smith J ,, Doe A ,", []string{"Smith J", "Doe A"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseList(tt.cell); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestHIndexGIndex(t *testing.T) {
	tests := []struct {
		name      string
		citations []int
		h, g      int
	}{
		{"empty", nil, 0, 0},
		{"all zero", []int{0, 0}, 0, 0},
		{"classic", []int{10, 8, 5, 4, 3}, 4, 5},
		{"one big paper", []int{100, 0, 0}, 1, 3},
		{"unsorted input", []int{1, 6, 3}, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HIndex(tt.citations); got != tt.h {
				t.Errorf("HIndex(%v) = %d, want %d", tt.citations, got, tt.h)
			}
			if got := GIndex(tt.citations); got != tt.g {
				t.Errorf("GIndex(%v) = %d, want %d", tt.citations, got, tt.g)
			}
		})
	}
}

func sampleRecords() []reference.Record {
	return []reference.Record{
		{Title: "P1", Authors: "Smith J, Doe A", TimesCited: intPtr(10)},
		{Title: "P2", Authors: "Smith J", TimesCited: intPtr(2)},
		{Title: "P3", Authors: "Doe A, Roe B"},
	}
}

func TestProductivity(t *testing.T) {
	got := Productivity(sampleRecords())

	want := []Stats{
		{Author: "Doe A", Articles: 2, TotalCitations: 10, AverageCitations: 5, HIndex: 1, GIndex: 2},
		{Author: "Roe B", Articles: 1, TotalCitations: 0, AverageCitations: 0, HIndex: 0, GIndex: 0},
		{Author: "Smith J", Articles: 2, TotalCitations: 12, AverageCitations: 6, HIndex: 2, GIndex: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Productivity() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestTopBy(t *testing.T) {
	stats := Productivity(sampleRecords())

	top, err := TopBy(stats, ByTotal, 2)
	if err != nil {
		t.Fatalf("TopBy() error = %v", err)
	}
	if len(top) != 2 || top[0].Author != "Smith J" || top[1].Author != "Doe A" {
		t.Errorf("TopBy(total) = %+v", top)
	}

	// Doe A and Smith J tie on articles; name order is kept.
	top, _ = TopBy(stats, ByArticles, 1)
	if top[0].Author != "Doe A" {
		t.Errorf("TopBy(articles)[0] = %s, want Doe A", top[0].Author)
	}

	if _, err := TopBy(stats, "impact", 3); err == nil {
		t.Error("TopBy(impact) expected error")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())

	if s.UniqueAuthors != 3 {
		t.Errorf("UniqueAuthors = %d, want 3", s.UniqueAuthors)
	}
	if s.TotalCitations != 12 || s.AverageCitations != 6 {
		t.Errorf("citations = %d/%v, want 12/6", s.TotalCitations, s.AverageCitations)
	}
	if !reflect.DeepEqual(s.MissingCitations, []string{"P3"}) {
		t.Errorf("MissingCitations = %v, want [P3]", s.MissingCitations)
	}
}
