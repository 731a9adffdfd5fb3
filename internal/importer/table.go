// Package importer reads citation-database exports into records.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matsen/citenet/internal/reference"
)

// Column names recognized in exports. Lookup ignores case and surrounding
// whitespace.
const (
	ColumnTitle      = "Title"
	ColumnAuthors    = "Authors"
	ColumnTimesCited = "Times Cited"
	ColumnYear       = "Publication Year"
	ColumnDOI        = "DOI"
)

// ReferenceColumns are the reference-list columns tried in order when no
// column is configured.
var ReferenceColumns = []string{"Article References", "Cited References"}

// Options configures ReadTable.
type Options struct {
	// ReferencesColumn overrides the reference-list column. Empty tries
	// ReferenceColumns.
	ReferencesColumn string
}

// schema maps required and optional columns to their header positions.
// Optional columns are -1 when absent.
type schema struct {
	title      int
	references int
	authors    int
	timesCited int
	year       int
	doi        int
}

// ReadTable reads a CSV export with a header row. Missing or entirely empty
// required columns fail with a *reference.MalformedInputError before any
// record is returned. Cells that cannot be parsed (such as a non-numeric
// citation count) are left unset and reported in the returned row errors.
func ReadTable(r io.Reader, opts Options) ([]reference.Record, []error, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &reference.MalformedInputError{Reason: "file is empty"}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	sch, err := resolveSchema(header, opts)
	if err != nil {
		return nil, nil, err
	}

	var records []reference.Record
	var rowErrs []error
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("reading row %d: %w", line, err)
		}
		if blankRow(row) {
			continue
		}
		rec, errs := toRecord(row, sch)
		for _, e := range errs {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", line, e))
		}
		records = append(records, rec)
	}

	if err := reference.Validate(records); err != nil {
		var mie *reference.MalformedInputError
		if errors.As(err, &mie) && mie.Column == "References" {
			mie.Column = header[sch.references]
		}
		return nil, nil, err
	}
	return records, rowErrs, nil
}

func resolveSchema(header []string, opts Options) (schema, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	lookup := func(name string) int {
		if i, ok := index[normalizeHeader(name)]; ok {
			return i
		}
		return -1
	}

	sch := schema{
		title:      lookup(ColumnTitle),
		references: -1,
		authors:    lookup(ColumnAuthors),
		timesCited: lookup(ColumnTimesCited),
		year:       lookup(ColumnYear),
		doi:        lookup(ColumnDOI),
	}
	if sch.title < 0 {
		return sch, &reference.MalformedInputError{Column: ColumnTitle, Reason: "is missing"}
	}

	candidates := ReferenceColumns
	if opts.ReferencesColumn != "" {
		candidates = []string{opts.ReferencesColumn}
	}
	for _, c := range candidates {
		if i := lookup(c); i >= 0 {
			sch.references = i
			break
		}
	}
	if sch.references < 0 {
		return sch, &reference.MalformedInputError{
			Column: strings.Join(candidates, "|"),
			Reason: "is missing",
		}
	}
	return sch, nil
}

// normalizeHeader folds case, surrounding whitespace and a UTF-8 byte order
// mark so "publication year" matches "Publication Year".
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func toRecord(row []string, sch schema) (reference.Record, []error) {
	rec := reference.Record{
		Title:   cell(row, sch.title),
		Authors: cell(row, sch.authors),
		DOI:     cell(row, sch.doi),
	}
	if refs := cell(row, sch.references); refs != "" {
		rec.References = reference.StringPtr(refs)
	}

	var errs []error
	if n, ok, err := parseCount(cell(row, sch.timesCited)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ColumnTimesCited, err))
	} else if ok {
		rec.TimesCited = &n
	}
	if n, ok, err := parseCount(cell(row, sch.year)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ColumnYear, err))
	} else if ok {
		rec.Year = n
	}
	return rec, errs
}

// parseCount reads a whole number from a cell that spreadsheets may have
// written as "12" or "12.0". An empty cell reports ok=false.
func parseCount(s string) (int, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false, fmt.Errorf("not a whole number: %q", s)
	}
	return int(f), true, nil
}
