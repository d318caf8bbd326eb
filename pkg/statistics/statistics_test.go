package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type constant struct {
	v float64
}

func (c constant) ExpectedValue() float64 { return c.v }
func (c constant) Variance() float64      { return 0 }
func (c constant) RMSValue() float64      { return c.v }

func TestSummarize(t *testing.T) {
	m := Summarize([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, m.Mean)
	// unbiased sample variance
	assert.InDelta(t, 5.0/3, m.Variance, 1e-15)
	assert.InDelta(t, math.Sqrt(30.0/4), m.RMS, 1e-15)

	assert.Equal(t, Moments{}, Summarize(nil))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 3}))
}

func TestCompare(t *testing.T) {
	errs := Compare(constant{v: 2}, []float64{2, 2, 2})
	assert.Equal(t, 0.0, errs.Mean)
	assert.Equal(t, 0.0, errs.Variance)
	assert.Equal(t, 0.0, errs.RMS)

	assert.InDelta(t, 0.1, RelativeError(1.1, 1), 1e-12)
	assert.Equal(t, 0.5, RelativeError(0.5, 0))
}

func TestEmpiricalCDF(t *testing.T) {
	cdf := EmpiricalCDF([]float64{4, 1, 3, 2}, []float64{0, 1, 2.5, 4, 10})
	assert.Equal(t, []float64{0, 0.25, 0.5, 1, 1}, cdf)
}
