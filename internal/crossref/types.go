package crossref

// workResponse is the envelope of GET /works/{doi}.
type workResponse struct {
	Status  string `json:"status"`
	Message Work   `json:"message"`
}

// Work is the subset of a CrossRef work record used for backfilling.
type Work struct {
	DOI               string      `json:"DOI"`
	Title             []string    `json:"title"`
	ReferencedByCount *int        `json:"is-referenced-by-count"`
	Created           DateParts   `json:"created"`
	Author            []Author    `json:"author"`
	Reference         []Reference `json:"reference"`
}

// DateParts holds CrossRef's nested [[year, month, day]] dates.
type DateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the first date part, or 0.
func (d DateParts) Year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

// Author is a contributor on a work.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// Reference is one entry of a work's reference list. Deposited references
// carry any subset of these fields.
type Reference struct {
	Key          string `json:"key"`
	DOI          string `json:"DOI"`
	ArticleTitle string `json:"article-title"`
	Author       string `json:"author"`
	Year         string `json:"year"`
}
