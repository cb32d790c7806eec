package stats

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Two-tailed z-values for the usual confidence levels.
var (
	Z95 = ZVal(95)
	Z98 = ZVal(98)
	Z99 = ZVal(99)
)

// ZVal returns the two-tailed z-value for a confidence level given in
// percent, e.g. 95 gives about 1.96.
func ZVal(percent float64) float64 {
	return stdNormal.Quantile(0.5 + percent/200)
}
