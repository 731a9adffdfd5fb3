package centrality

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matsen/citenet/internal/network"
)

// ErrNotConverged indicates the eigenvector power iteration hit its cap.
var ErrNotConverged = errors.New("eigenvector centrality did not converge")

// ConvergenceError reports a power iteration that did not converge. Callers
// may retry with a larger cap or tolerance, or omit eigenvector ranking.
type ConvergenceError struct {
	Iterations int
	Tolerance  float64
	Residual   float64 // Last Σ|x - x'|
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("eigenvector centrality did not converge in %d iterations (tolerance %g, residual %g)",
		e.Iterations, e.Tolerance, e.Residual)
}

// Is makes errors.Is(err, ErrNotConverged) match.
func (e *ConvergenceError) Is(target error) bool {
	return target == ErrNotConverged
}

// IsConvergenceError returns true if the error reports non-convergence.
func IsConvergenceError(err error) bool {
	return errors.Is(err, ErrNotConverged)
}

// Eigenvector computes eigenvector centrality by power iteration on the
// weighted adjacency matrix shifted by the identity (A + I), which keeps
// bipartite graphs from oscillating without changing the principal
// eigenvector. Iteration starts from the uniform vector and each step is
// L2-normalized; it converges when Σ|x - x'| < n·tol.
//
// Scores are relative; only their order is meaningful.
func Eigenvector(g *network.Graph, maxIter int, tol float64) (map[string]float64, error) {
	n := g.Len()
	out := make(map[string]float64, n)
	if n == 0 {
		return out, nil
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a.SetSym(i, i, 1)
		for _, j := range g.NeighborIDs(int64(i)) {
			a.SetSym(i, int(j), g.WeightByID(int64(i), j))
		}
	}

	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)

	residual := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		next.MulVec(a, x)
		norm := mat.Norm(next, 2)
		if norm == 0 {
			norm = 1
		}
		next.ScaleVec(1/norm, next)

		residual = 0
		for i := 0; i < n; i++ {
			residual += math.Abs(next.AtVec(i) - x.AtVec(i))
		}
		x, next = next, x

		if residual < float64(n)*tol {
			for i := 0; i < n; i++ {
				out[g.Label(int64(i))] = x.AtVec(i)
			}
			return out, nil
		}
	}

	return nil, &ConvergenceError{Iterations: maxIter, Tolerance: tol, Residual: residual}
}
