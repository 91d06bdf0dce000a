package museval

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mixcheck/stembench/src/shared/lib/mark"
	resultsentity "github.com/mixcheck/stembench/src/shared/results/entity"
)

// significantDigits is the fixed rounding precision for stored metric values
// so results diff cleanly across runs and models.
const significantDigits = 6

// Aggregate collapses the framed scores into one MetricSet per target using
// the v4 aggregation rule: median over the finite frame values of each
// metric. Values are rounded to 6 significant figures.
func (r RawScores) Aggregate() (map[string]resultsentity.MetricSet, error) {
	aggregated := map[string]resultsentity.MetricSet{}

	for _, target := range r.Targets {
		metricSet := resultsentity.MetricSet{}

		for _, metricName := range MetricNames {
			value, err := aggregateMetric(target, metricName)
			if err != nil {
				return nil, err
			}

			switch metricName {
			case "SDR":
				metricSet.SDR = value
			case "SIR":
				metricSet.SIR = value
			case "SAR":
				metricSet.SAR = value
			case "ISR":
				metricSet.ISR = value
			}
		}

		aggregated[target.Name] = metricSet
	}

	return aggregated, nil
}

func aggregateMetric(target Target, metricName string) (float64, error) {
	values := []float64{}
	for _, frame := range target.Frames {
		value := frame.Metrics.Value(metricName)
		if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
			continue
		}

		values = append(values, *value)
	}

	if len(values) == 0 {
		return 0, mark.Message(MetricComputeMark,
			fmt.Sprintf("No finite %s frames for target %s", metricName, target.Name))
	}

	return RoundSignificant(median(values)), nil
}

// median is the sample median over the finite frame values: the middle
// element for an odd count, the mean of the two middle elements for an even
// count. Quantile-interpolation variants give different answers on even
// counts, so this stays hand-rolled.
func median(values []float64) float64 {
	sort.Float64s(values)

	middle := len(values) / 2
	if len(values)%2 == 1 {
		return values[middle]
	}

	return (values[middle-1] + values[middle]) / 2
}

// RoundSignificant rounds to 6 significant figures by round-tripping through
// the %g representation at that precision.
func RoundSignificant(value float64) float64 {
	formatted := strconv.FormatFloat(value, 'g', significantDigits, 64)
	rounded, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		// FormatFloat output always parses back
		return value
	}

	return rounded
}
