package museval

import "github.com/cockroachdb/errors"

var (
	MetricComputeMark = errors.New("metric_compute_failed")
)
