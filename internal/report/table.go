package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/matsen/citenet/internal/author"
	"github.com/matsen/citenet/internal/cooccur"
)

// Table is a named delimited-text table.
type Table struct {
	Name   string // File name
	Header []string
	Rows   [][]string
}

// WriteCSV writes the table as comma-separated UTF-8 with a header row and
// "\n" line endings. Output is byte-identical for identical tables.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// formatFloat renders the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (r *Report) isCoupling() bool {
	return r.Mode == cooccur.ModeCoupling
}

// PairsTable lists the top pairs by count.
func (r *Report) PairsTable() Table {
	t := Table{
		Name:   fmt.Sprintf("top%d_co_citation.csv", r.PairLimit),
		Header: []string{"Ref1", "Ref2", "Count"},
	}
	if r.isCoupling() {
		t.Name = fmt.Sprintf("top%d_bibliographic_coupling.csv", r.PairLimit)
		t.Header = []string{"Article1", "Article2", "Shared_Refs"}
	}
	for _, p := range r.TopPairs {
		t.Rows = append(t.Rows, []string{p.A, p.B, strconv.Itoa(p.Count)})
	}
	return t
}

// ClusterTable summarizes cluster sizes.
func (r *Report) ClusterTable() Table {
	t := Table{Name: "clusters_summary.csv", Header: []string{"Cluster", "Num_Nodes"}}
	if r.isCoupling() {
		t.Name = "clusters_bc_summary.csv"
	}
	for _, c := range r.Clusters {
		t.Rows = append(t.Rows, []string{strconv.Itoa(c.Cluster), strconv.Itoa(c.NumNodes)})
	}
	return t
}

// LegendTable maps node labels to identities.
func (r *Report) LegendTable() Table {
	t := Table{Name: "legend_co_citation.csv", Header: []string{"Node", "Reference", "Cluster"}}
	if r.isCoupling() {
		t.Name = "legend_bibliographic_coupling.csv"
		t.Header = []string{"Node", "Article", "Cluster"}
	}
	for _, n := range r.Nodes {
		t.Rows = append(t.Rows, []string{n.Label, n.Identity, strconv.Itoa(n.Cluster)})
	}
	return t
}

// CentralityTable lists the scores of the shown nodes by betweenness
// descending, then identity. The Eigenvector column is left out when the
// eigen-solver did not converge.
func (r *Report) CentralityTable() Table {
	t := Table{Name: "centrality.csv", Header: []string{"Node", "Betweenness", "Eigenvector", "Closeness"}}
	if r.isCoupling() {
		t.Name = "centrality_bc.csv"
	}
	if !r.HasEigenvector {
		t.Header = []string{"Node", "Betweenness", "Closeness"}
	}

	nodes := make([]Node, len(r.Nodes))
	copy(nodes, r.Nodes)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Betweenness != nodes[j].Betweenness {
			return nodes[i].Betweenness > nodes[j].Betweenness
		}
		return nodes[i].Identity < nodes[j].Identity
	})

	for _, n := range nodes {
		row := []string{n.Identity, formatFloat(n.Betweenness)}
		if r.HasEigenvector {
			row = append(row, formatFloat(n.Eigenvector))
		}
		row = append(row, formatFloat(n.Closeness))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// AuthorTable lists per-author productivity metrics.
func AuthorTable(stats []author.Stats) Table {
	t := Table{
		Name:   "author_metrics.csv",
		Header: []string{"Author", "Number of Articles", "Total Citations", "Average Citations", "h-index", "g-index"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			s.Author,
			strconv.Itoa(s.Articles),
			strconv.Itoa(s.TotalCitations),
			formatFloat(s.AverageCitations),
			strconv.Itoa(s.HIndex),
			strconv.Itoa(s.GIndex),
		})
	}
	return t
}

// Tables returns every table of the report in export order.
func (r *Report) Tables() []Table {
	tables := []Table{r.PairsTable(), r.ClusterTable(), r.LegendTable(), r.CentralityTable()}
	if r.Authors != nil {
		tables = append(tables, AuthorTable(r.Authors))
	}
	return tables
}

// WriteDir writes each table to dir under its name and returns the paths.
func WriteDir(dir string, tables []Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.Name)
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("creating %s: %w", t.Name, err)
		}
		werr := t.WriteCSV(f)
		cerr := f.Close()
		if werr != nil {
			return paths, fmt.Errorf("writing %s: %w", t.Name, werr)
		}
		if cerr != nil {
			return paths, fmt.Errorf("closing %s: %w", t.Name, cerr)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
