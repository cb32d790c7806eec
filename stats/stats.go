// Package stats keeps running statistics over playout and game scores.
package stats

import (
	"fmt"
	"math"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates a stream of samples without storing them.
type Statistic struct {
	totalIterations int
	last            float64
	min, max        float64

	// For Welford's algorithm:
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.mean = val
		s.m2 = 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.totalIterations)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

// Merge folds o into s, as if every sample pushed to o had been pushed
// to s. Last is left alone.
func (s *Statistic) Merge(o *Statistic) {
	if o.totalIterations == 0 {
		return
	}
	if s.totalIterations == 0 {
		last := s.last
		*s = *o
		s.last = last
		return
	}
	n1, n2 := float64(s.totalIterations), float64(o.totalIterations)
	n := n1 + n2
	delta := o.mean - s.mean
	s.mean += delta * n2 / n
	s.m2 += o.m2 + delta*delta*n1*n2/n
	s.totalIterations += o.totalIterations
	s.min = math.Min(s.min, o.min)
	s.max = math.Max(s.max, o.max)
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.mean
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

// ConfidenceInterval returns the bounds of the interval around the mean
// for the given z-value (see Z95 and friends).
func (s *Statistic) ConfidenceInterval(z float64) (float64, float64) {
	e := z * s.StandardError()
	return s.Mean() - e, s.Mean() + e
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

func (s *Statistic) String() string {
	return fmt.Sprintf("<mean %.3f stdev %.3f n %d>", s.Mean(), s.Stdev(), s.totalIterations)
}
