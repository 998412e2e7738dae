package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/linmotor/internal/solver"
	"github.com/san-kum/linmotor/internal/sweep"
)

func frame(position, force float64) sweep.Frame {
	return sweep.Frame{
		Position: position,
		Result: &solver.Result{
			Attempts: 1,
			Domains: map[solver.Domain]*solver.DomainResult{
				solver.Magnetic: {Scalars: map[string]solver.Scalar{
					"force_stress_tensor": {Name: "force_stress_tensor", Value: force, Unit: "N"},
				}},
			},
		},
	}
}

func failedFrame(position float64) sweep.Frame {
	return sweep.Frame{
		Position: position,
		Result: &solver.Result{
			Attempts: 1,
			Failure:  &solver.Failure{Class: solver.ClassCrashed, Message: "exit 3"},
		},
	}
}

func TestSummarize(t *testing.T) {
	frames := []sweep.Frame{
		frame(0, 10),
		frame(3, 12),
		frame(6, 8),
		frame(9, 10),
	}

	s, err := Summarize(frames, "force_stress_tensor")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}

	if s.Frames != 4 {
		t.Errorf("expected 4 frames, got %d", s.Frames)
	}
	if math.Abs(s.Mean-10) > 1e-9 {
		t.Errorf("expected mean 10, got %f", s.Mean)
	}
	if s.Min != 8 || s.Max != 12 {
		t.Errorf("expected range [8, 12], got [%f, %f]", s.Min, s.Max)
	}
	// peak-to-peak of 4 around a mean of 10.
	if math.Abs(s.Ripple-0.4) > 1e-9 {
		t.Errorf("expected ripple 0.4, got %f", s.Ripple)
	}
	if s.Unit != "N" {
		t.Errorf("expected unit N, got %s", s.Unit)
	}

	wantRMS := math.Sqrt((100 + 144 + 64 + 100) / 4.0)
	if math.Abs(s.RMS-wantRMS) > 1e-9 {
		t.Errorf("expected rms %f, got %f", wantRMS, s.RMS)
	}
}

func TestSummarizeSkipsFailedFrames(t *testing.T) {
	frames := []sweep.Frame{
		frame(0, 10),
		failedFrame(3),
		frame(6, 20),
	}

	s, err := Summarize(frames, "force_stress_tensor")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if s.Frames != 2 {
		t.Errorf("expected 2 frames counted, got %d", s.Frames)
	}
	if math.Abs(s.Mean-15) > 1e-9 {
		t.Errorf("expected mean 15, got %f", s.Mean)
	}
}

func TestSummarizeNoData(t *testing.T) {
	if _, err := Summarize([]sweep.Frame{failedFrame(0)}, "force_stress_tensor"); err == nil {
		t.Error("expected error when no frame completed")
	}
	if _, err := Summarize([]sweep.Frame{frame(0, 10)}, "unknown_output"); err == nil {
		t.Error("expected error for unknown output")
	}
}

func TestSummarizeZeroMeanRipple(t *testing.T) {
	frames := []sweep.Frame{frame(0, -5), frame(3, 5)}
	s, err := Summarize(frames, "force_stress_tensor")
	if err != nil {
		t.Fatal(err)
	}
	if s.Ripple != 0 {
		t.Errorf("ripple should be zero when the mean is zero, got %f", s.Ripple)
	}
}
