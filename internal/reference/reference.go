// Package reference defines the core domain types for bibliographic records
// and the canonical identities of the works they cite.
package reference

// Record represents one article exported from a citation database.
type Record struct {
	// Identity
	Title string `json:"title"`
	DOI   string `json:"doi,omitempty"`

	// Raw semicolon-delimited reference list. Nil when the export had no value.
	References *string `json:"references"`

	// Metadata used by author productivity metrics
	Authors    string `json:"authors,omitempty"` // Raw comma-separated author cell
	Year       int    `json:"year,omitempty"`
	TimesCited *int   `json:"times_cited,omitempty"`
}

// HasReferences reports whether the record carries a non-empty reference list.
func (r Record) HasReferences() bool {
	return r.References != nil && *r.References != ""
}

// Identities returns the distinct reference identities cited by the record.
func (r Record) Identities() []Identity {
	if r.References == nil {
		return nil
	}
	return Normalize(*r.References)
}

// StringPtr returns a pointer to s. Useful for building records in code.
func StringPtr(s string) *string {
	return &s
}
