package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Analytic is a distribution with closed-form moments
type Analytic interface {
	ExpectedValue() float64
	Variance() float64
	RMSValue() float64
}

// Moments summarizes a batch of Monte-Carlo samples
type Moments struct {
	Mean     float64
	Variance float64
	RMS      float64
}

// Summarize computes the empirical moments of samples
func Summarize(samples []float64) Moments {
	if len(samples) == 0 {
		return Moments{}
	}
	mean, variance := stat.MeanVariance(samples, nil)
	second := 0.0
	for _, x := range samples {
		second += x * x
	}
	return Moments{
		Mean:     mean,
		Variance: variance,
		RMS:      math.Sqrt(second / float64(len(samples))),
	}
}

// RelativeError returns |empirical - analytic| / |analytic|
func RelativeError(empirical, analytic float64) float64 {
	if analytic == 0 {
		return math.Abs(empirical)
	}
	return math.Abs(empirical-analytic) / math.Abs(analytic)
}

// Compare returns the relative error of each empirical moment against the analytic one
func Compare(d Analytic, samples []float64) Moments {
	m := Summarize(samples)
	return Moments{
		Mean:     RelativeError(m.Mean, d.ExpectedValue()),
		Variance: RelativeError(m.Variance, d.Variance()),
		RMS:      RelativeError(m.RMS, d.RMSValue()),
	}
}

// Mean of samples, zero when empty
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return stat.Mean(samples, nil)
}

// EmpiricalCDF returns the fraction of samples at or below each x
func EmpiricalCDF(samples []float64, xs []float64) []float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = stat.CDF(x, stat.Empirical, sorted, nil)
	}
	return out
}
