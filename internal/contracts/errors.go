package contracts

import (
	"errors"
	"fmt"
)

// ErrNoData marks a ticker for which the provider returned nothing usable.
// Providers wrap it with %w; the pipeline reports the ticker as "no data".
var ErrNoData = errors.New("no data")

// Shape rejection reasons
const (
	RejectEmptyStatement     = "empty_statement"
	RejectUnparseableDate    = "unparseable_date"
	RejectAnchorMismatch     = "anchor_mismatch"
	RejectUnsupportedAnchor  = "unsupported_anchor"
	RejectInsufficientYears  = "insufficient_years"
	RejectNonContiguousYears = "non_contiguous_years"
)

// ShapeRejection is returned when statements exist but do not fit the
// accepted year window
type ShapeRejection struct {
	Reason string
	Detail string
}

func (e *ShapeRejection) Error() string {
	if e.Detail == "" {
		return "statements rejected: " + e.Reason
	}
	return fmt.Sprintf("statements rejected: %s (%s)", e.Reason, e.Detail)
}

// Reject builds a ShapeRejection
func Reject(reason string, format string, args ...interface{}) *ShapeRejection {
	return &ShapeRejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// IsShapeRejection reports whether err (or anything it wraps) is a ShapeRejection
func IsShapeRejection(err error) bool {
	var rej *ShapeRejection
	return errors.As(err, &rej)
}
