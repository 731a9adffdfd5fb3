// Package storage handles data persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/citenet/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines.
// Reference lists of review articles run to tens of kilobytes, so this is
// generous (4MB per line).
const MaxJSONLLineCapacity = 4 * 1024 * 1024

// Import actions.
const (
	ActionNew    = "new"
	ActionUpdate = "update"
)

// RecordWithAction pairs an incoming record with an import action.
type RecordWithAction struct {
	Record      reference.Record
	Action      string // new, update
	ExistingIdx int    // Index in existing records (for updates)
}

// ReadRecords reads all records from a JSONL file. A missing file yields no
// records.
func ReadRecords(path string) ([]reference.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var records []reference.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec reference.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	return records, nil
}

// AppendRecords adds records to the end of a JSONL file.
func AppendRecords(path string, records []reference.Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening records file for append: %w", err)
	}
	defer f.Close()

	return writeLines(f, records)
}

// WriteRecords writes all records to a JSONL file, replacing existing content.
func WriteRecords(path string, records []reference.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	return writeLines(f, records)
}

func writeLines(f *os.File, records []reference.Record) error {
	w := bufio.NewWriter(f)
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return w.Flush()
}

// FindByDOI searches for a record by DOI.
func FindByDOI(records []reference.Record, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, rec := range records {
		if rec.DOI == doi {
			return i, true
		}
	}
	return -1, false
}

// FindByTitle searches for a record by title.
func FindByTitle(records []reference.Record, title string) (int, bool) {
	if title == "" {
		return -1, false
	}
	for i, rec := range records {
		if rec.Title == title {
			return i, true
		}
	}
	return -1, false
}

// PlanImport decides, for each incoming record, whether it is new or
// replaces an existing record. Records match by DOI first, then by title.
// A record repeated within incoming updates its earlier planned entry.
func PlanImport(existing, incoming []reference.Record) []RecordWithAction {
	var plan []RecordWithAction
	planned := make(map[string]int) // match key -> index in plan

	for _, rec := range incoming {
		key := matchKey(rec)
		if i, ok := planned[key]; ok && key != "" {
			plan[i].Record = rec
			continue
		}

		action := RecordWithAction{Record: rec, Action: ActionNew, ExistingIdx: -1}
		if idx, ok := FindByDOI(existing, rec.DOI); ok {
			action.Action, action.ExistingIdx = ActionUpdate, idx
		} else if idx, ok := FindByTitle(existing, rec.Title); ok {
			action.Action, action.ExistingIdx = ActionUpdate, idx
		}
		if key != "" {
			planned[key] = len(plan)
		}
		plan = append(plan, action)
	}
	return plan
}

// ApplyImport returns existing with the plan applied: updates replace in
// place and new records are appended in plan order.
func ApplyImport(existing []reference.Record, plan []RecordWithAction) []reference.Record {
	out := make([]reference.Record, len(existing))
	copy(out, existing)
	for _, a := range plan {
		if a.Action == ActionUpdate {
			out[a.ExistingIdx] = a.Record
			continue
		}
		out = append(out, a.Record)
	}
	return out
}

func matchKey(rec reference.Record) string {
	if rec.DOI != "" {
		return "doi:" + rec.DOI
	}
	if rec.Title != "" {
		return "title:" + rec.Title
	}
	return ""
}
