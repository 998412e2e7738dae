package orch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/solver"
)

// gatedSolver counts concurrent Run calls to verify the worker cap.
type gatedSolver struct {
	fakeSolver
	inFlight int32
	peak     int32
	mu       sync.Mutex
}

func (g *gatedSolver) Run(ctx context.Context, s solver.Session) (*solver.RawOutput, error) {
	n := atomic.AddInt32(&g.inFlight, 1)
	g.mu.Lock()
	if n > g.peak {
		g.peak = n
	}
	g.mu.Unlock()
	defer atomic.AddInt32(&g.inFlight, -1)
	time.Sleep(5 * time.Millisecond)
	return g.fakeSolver.Run(ctx, s)
}

func TestBatchPreservesOrder(t *testing.T) {
	g := NewWithT(t)
	f := &fakeSolver{}
	o := New(f, material.Builtin(), Config{Workers: 3})

	var candidates []Candidate
	for i := 0; i < 6; i++ {
		c := staticCase()
		c.Label = fmt.Sprintf("cand-%d", i)
		candidates = append(candidates, Candidate{Model: testModel(t, nil), Case: c})
	}

	results := o.Batch(context.Background(), candidates)

	g.Expect(results).To(HaveLen(6))
	for i, rs := range results {
		g.Expect(rs).To(HaveLen(1))
		g.Expect(rs[0].Case).To(Equal(fmt.Sprintf("cand-%d", i)))
		g.Expect(rs[0].Completed()).To(BeTrue())
	}
}

func TestBatchIsolatesMalformedCandidate(t *testing.T) {
	g := NewWithT(t)
	f := &fakeSolver{}
	o := New(f, material.Builtin(), Config{Workers: 2})

	candidates := []Candidate{
		{Model: testModel(t, nil), Case: staticCase()},
		{Model: testModel(t, map[string]float64{"air_gap": 50}), Case: staticCase()},
		{Model: testModel(t, nil), Case: staticCase()},
	}

	results := o.Batch(context.Background(), candidates)

	g.Expect(results).To(HaveLen(3))
	g.Expect(results[0][0].Completed()).To(BeTrue())
	g.Expect(results[2][0].Completed()).To(BeTrue())

	bad := results[1][0]
	g.Expect(bad.Failure.Class).To(Equal(solver.ClassDesignInvalid))
	g.Expect(bad.Attempts).To(Equal(0))

	// Two good candidates, one point each. The malformed one never
	// reached the backend.
	g.Expect(f.prepares).To(Equal(2))
}

func TestBatchHonorsWorkerCap(t *testing.T) {
	g := NewWithT(t)
	gs := &gatedSolver{}
	o := New(gs, material.Builtin(), Config{Workers: 2})

	var candidates []Candidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, Candidate{Model: testModel(t, nil), Case: staticCase()})
	}
	o.Batch(context.Background(), candidates)

	g.Expect(gs.peak).To(BeNumerically("<=", 2))
	g.Expect(gs.runs).To(Equal(8))
}

func TestBatchEmptyInput(t *testing.T) {
	g := NewWithT(t)
	o := New(&fakeSolver{}, material.Builtin(), Config{})
	g.Expect(o.Batch(context.Background(), nil)).To(BeEmpty())
}
