// Package analysis summarizes sweep traces: aggregate statistics of a
// named output across the frames of a displacement sweep.
package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/linmotor/internal/sweep"
)

// Summary holds the aggregate statistics of one scalar over a sweep.
// Ripple is the peak-to-peak excursion relative to the mean; it is zero
// when the mean is zero.
type Summary struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Frames int     `json:"frames"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	RMS    float64 `json:"rms"`
	Ripple float64 `json:"ripple"`
}

// Summarize aggregates a named scalar across the completed frames of a
// sweep. Failed frames are skipped; an error is returned when no frame
// carries the scalar.
func Summarize(frames []sweep.Frame, name string) (Summary, error) {
	s := Summary{
		Name: name,
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}

	var sum, sumSq float64
	for _, f := range frames {
		if !f.Result.Completed() {
			continue
		}
		scalar, ok := f.Result.Scalar(name)
		if !ok {
			continue
		}
		s.Unit = scalar.Unit
		s.Frames++
		sum += scalar.Value
		sumSq += scalar.Value * scalar.Value
		s.Min = math.Min(s.Min, scalar.Value)
		s.Max = math.Max(s.Max, scalar.Value)
	}
	if s.Frames == 0 {
		return Summary{}, fmt.Errorf("no completed frame carries output %q", name)
	}

	n := float64(s.Frames)
	s.Mean = sum / n
	s.RMS = math.Sqrt(sumSq / n)
	if s.Mean != 0 {
		s.Ripple = (s.Max - s.Min) / math.Abs(s.Mean)
	}
	return s, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: mean %.4f %s, min %.4f, max %.4f, rms %.4f, ripple %.2f%%",
		s.Name, s.Mean, s.Unit, s.Min, s.Max, s.RMS, s.Ripple*100)
}
