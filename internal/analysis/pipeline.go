// Package analysis runs the reference-network pipeline: normalize references,
// count pairs, build the top-K graph, detect clusters, rank centrality and
// assemble the report.
//
// A run is synchronous and owns every structure it builds; nothing is cached
// between runs.
package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/author"
	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/cluster"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/report"
)

// EmptyGraphWarning reports that no pair survived top-K filtering, typically
// because fewer than two records share references. It is not fatal: the run
// finishes with empty clusters, scores and tables.
type EmptyGraphWarning struct {
	Mode    cooccur.Mode
	Records int
}

func (w *EmptyGraphWarning) Error() string {
	return fmt.Sprintf("%s graph is empty: no pairs found in %d records", w.Mode, w.Records)
}

// Summary describes a finished run.
type Summary struct {
	RunID                    string       `json:"run_id"`
	Mode                     cooccur.Mode `json:"mode"`
	Records                  int          `json:"records"`
	RecordsWithReferences    int          `json:"records_with_references"`
	RecordsMissingReferences int          `json:"records_missing_references"`
	DistinctReferences       int          `json:"distinct_references"`
	Pairs                    int          `json:"pairs"`
	Nodes                    int          `json:"nodes"`
	Edges                    int          `json:"edges"`
	Clusters                 int          `json:"clusters"`
	Modularity               float64      `json:"modularity"`
	EigenvectorConverged     bool         `json:"eigenvector_converged"`
	Warnings                 []string     `json:"warnings"`
}

// Result holds everything a run produced.
type Result struct {
	Summary    Summary            `json:"summary"`
	Report     *report.Report     `json:"report"`
	Pairs      []cooccur.Pair     `json:"-"` // All counted pairs, sorted
	Graph      *network.Graph     `json:"-"`
	Clusters   cluster.Result     `json:"-"`
	Centrality *centrality.Result `json:"-"`

	// EmptyGraph is set when no pair survived top-K filtering.
	EmptyGraph *EmptyGraphWarning `json:"-"`
}

// Pipeline runs analyses.
type Pipeline struct {
	logger *zap.Logger
}

// New creates a pipeline. A nil logger discards logs.
func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Run analyzes records. Invalid options and malformed input fail before any
// computation; an empty graph and eigenvector non-convergence are reported
// on the result.
func (p *Pipeline) Run(records []reference.Record, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := reference.Validate(records); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID), zap.String("mode", string(opts.Mode)))
	start := time.Now()

	sum := Summary{
		RunID:    runID,
		Mode:     opts.Mode,
		Records:  len(records),
		Warnings: []string{},
	}
	refs := summarizeReferences(records, &sum)
	log.Debug("records loaded",
		zap.Int("records", sum.Records),
		zap.Int("with_references", sum.RecordsWithReferences),
		zap.Int("distinct_references", refs))

	counts := opts.Mode.Count(records)
	pairs := counts.Sorted()
	sum.Pairs = len(pairs)
	log.Debug("pairs counted", zap.Int("pairs", len(pairs)))

	g := network.Build(counts, opts.TopK)
	sum.Nodes, sum.Edges = g.Len(), g.EdgeCount()
	log.Debug("graph built", zap.Int("top_k", opts.TopK), zap.Int("nodes", sum.Nodes), zap.Int("edges", sum.Edges))

	res := &Result{Pairs: pairs, Graph: g}
	if g.IsEmpty() {
		res.EmptyGraph = &EmptyGraphWarning{Mode: opts.Mode, Records: len(records)}
		sum.Warnings = append(sum.Warnings, res.EmptyGraph.Error())
		log.Warn("empty graph", zap.Error(res.EmptyGraph))
	}

	res.Clusters = cluster.Detect(g, cluster.Options{Weighted: opts.WeightedClusters})
	sum.Clusters = len(res.Clusters.Clusters)
	sum.Modularity = res.Clusters.Modularity
	log.Debug("clusters detected", zap.Int("clusters", sum.Clusters), zap.Float64("modularity", sum.Modularity))

	res.Centrality = centrality.Rank(g, centrality.Options{
		MaxIter:   opts.MaxIter,
		Tolerance: opts.Tolerance,
		TopN:      opts.TopN,
	})
	sum.EigenvectorConverged = res.Centrality.HasEigenvector()
	if err := res.Centrality.EigenvectorErr; err != nil {
		sum.Warnings = append(sum.Warnings, err.Error())
		log.Warn("eigenvector column omitted", zap.Error(err))
	}

	rep, err := report.Assemble(pairs, g, res.Clusters, res.Centrality, report.Options{
		Mode:       opts.Mode,
		TopPairs:   opts.TopPairs,
		SizeMetric: opts.SizeMetric,
		Cluster:    opts.Cluster,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling report: %w", err)
	}
	if opts.Authors {
		rep.Authors = author.Productivity(records)
	}
	res.Report = rep
	res.Summary = sum

	log.Info("analysis complete",
		zap.Int("nodes", sum.Nodes),
		zap.Int("edges", sum.Edges),
		zap.Int("clusters", sum.Clusters),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// summarizeReferences fills the reference coverage fields of sum and returns
// the number of distinct identities.
func summarizeReferences(records []reference.Record, sum *Summary) int {
	seen := make(map[reference.Identity]bool)
	for _, r := range records {
		ids := r.Identities()
		if len(ids) == 0 {
			sum.RecordsMissingReferences++
			continue
		}
		sum.RecordsWithReferences++
		for _, id := range ids {
			seen[id] = true
		}
	}
	sum.DistinctReferences = len(seen)
	return len(seen)
}
