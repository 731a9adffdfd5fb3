package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/report"
)

// ErrInvalidOptions indicates run options that fail validation.
var ErrInvalidOptions = errors.New("invalid analysis options")

var validate = validator.New()

// Options configures one analysis run. Every run takes its own Options
// value; nothing is read from process-wide state.
type Options struct {
	Mode             cooccur.Mode `json:"mode" validate:"required,oneof=cocitation coupling"`
	TopK             int          `json:"top_k" validate:"gte=1"`
	TopPairs         int          `json:"top_pairs" validate:"gte=1"`
	TopN             int          `json:"top_n" validate:"gte=1"`
	MaxIter          int          `json:"max_iter" validate:"gte=1"`
	Tolerance        float64      `json:"tolerance" validate:"gt=0"`
	SizeMetric       string       `json:"size_metric" validate:"oneof=degree betweenness eigenvector closeness"`
	WeightedClusters bool         `json:"weighted_clusters"`
	Cluster          int          `json:"cluster" validate:"gte=0"`
	Authors          bool         `json:"authors"` // Add the author productivity table
}

// DefaultOptions returns the defaults for a mode.
func DefaultOptions(mode cooccur.Mode) Options {
	topK := network.DefaultTopKCoCitation
	if mode == cooccur.ModeCoupling {
		topK = network.DefaultTopKCoupling
	}
	return Options{
		Mode:       mode,
		TopK:       topK,
		TopPairs:   report.DefaultTopPairs,
		TopN:       centrality.DefaultTopN,
		MaxIter:    centrality.DefaultMaxIter,
		Tolerance:  centrality.DefaultTolerance,
		SizeMetric: report.SizeDegree,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, formatValidationError(err))
	}
	return nil
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := toSnake(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toSnake turns a Go field name into the matching config key.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
