package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"lgdhemis/internal/batch"
	"lgdhemis/internal/hemis"
	"lgdhemis/internal/labels"
	"lgdhemis/internal/pathmap"
	"lgdhemis/internal/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedProcessor struct {
	fail    map[string]bool
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	mu      sync.Mutex
	visited []string
}

func (p *scriptedProcessor) Process(_ context.Context, pair pathmap.Pair) hemis.Result {
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(p.delay)
	p.active.Add(-1)

	p.mu.Lock()
	p.visited = append(p.visited, pair.Input)
	p.mu.Unlock()

	if p.fail[pair.Input] {
		return hemis.Result{Pair: pair, State: hemis.StateFailed, Err: errors.New("forced")}
	}
	return hemis.Result{Pair: pair, State: hemis.StateSucceeded}
}

func pairs(names ...string) []pathmap.Pair {
	out := make([]pathmap.Pair, 0, len(names))
	for _, n := range names {
		out = append(out, pathmap.Pair{Input: n, Output: "/out/" + n})
	}
	return out
}

func TestRunIsolatesFailures(t *testing.T) {
	proc := &scriptedProcessor{fail: map[string]bool{"b": true}}
	summary := batch.New(proc, 2, nil).Run(context.Background(), pairs("a", "b", "c", "d"))

	if len(proc.visited) != 4 {
		t.Fatalf("expected every subject to run, visited %v", proc.visited)
	}
	if summary.Succeeded() != 3 || summary.Failed() != 1 {
		t.Fatalf("unexpected counts: succeeded=%d failed=%d", summary.Succeeded(), summary.Failed())
	}
	if summary.OK() {
		t.Fatal("expected batch to report failure")
	}
	if !errors.Is(summary.Err(), batch.ErrSubjectsFailed) {
		t.Fatalf("expected ErrSubjectsFailed, got %v", summary.Err())
	}
	for i, name := range []string{"a", "b", "c", "d"} {
		if summary.Results[i].Pair.Input != name {
			t.Fatalf("result %d belongs to %q, want %q", i, summary.Results[i].Pair.Input, name)
		}
	}
	if summary.Results[1].OK() {
		t.Fatal("expected result for b to be failed")
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.Finished.Before(summary.Started) {
		t.Fatal("expected finish after start")
	}
}

func TestRunAllSucceed(t *testing.T) {
	summary := batch.New(&scriptedProcessor{}, 3, nil).Run(context.Background(), pairs("a", "b"))
	if !summary.OK() || summary.Err() != nil {
		t.Fatalf("expected success, got %v", summary.Err())
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	proc := &scriptedProcessor{delay: 20 * time.Millisecond}
	batch.New(proc, 2, nil).Run(context.Background(), pairs("a", "b", "c", "d", "e", "f"))

	if peak := proc.peak.Load(); peak > 2 {
		t.Fatalf("expected at most 2 concurrent subjects, saw %d", peak)
	}
	if peak := proc.peak.Load(); peak < 1 {
		t.Fatalf("expected subjects to run, peak %d", peak)
	}
}

func TestNewDefaultsToAvailableCPUs(t *testing.T) {
	o := batch.New(&scriptedProcessor{}, 0, nil)
	if o.Workers() != batch.AvailableCPUs() {
		t.Fatalf("expected %d workers, got %d", batch.AvailableCPUs(), o.Workers())
	}
	if batch.AvailableCPUs() < 1 {
		t.Fatal("expected at least one CPU")
	}
}

func TestRunEmpty(t *testing.T) {
	summary := batch.New(&scriptedProcessor{}, 1, nil).Run(context.Background(), nil)
	if !summary.OK() || len(summary.Results) != 0 {
		t.Fatalf("unexpected empty summary %+v", summary)
	}
}

// TestRunEndToEnd drives the real driver with stub binaries standing in for
// minccalc and extract_wm_hemispheres_fetus.
func TestRunEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTools("", ""))
	root := testsupport.BaseDir(cfg)
	in := testsupport.WriteTree(t, filepath.Join(root, "in"),
		"subjA/seg_001.mnc", "subjA/t2_001.mnc",
		"subjB/seg_001.mnc", "subjB/t2_a.mnc", "subjB/t2_b.mnc",
	)
	out := filepath.Join(root, "out")

	found, err := pathmap.Discover(in, out, "**/*seg*.mnc")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	driver, err := hemis.NewDriver(hemis.Options{
		ExtractBinary: cfg.Tools.ExtractWMHemispheres,
		WorkDir:       cfg.Paths.WorkDir,
		Calculator:    labels.NewCalculator(cfg.Tools.Minccalc, nil, nil),
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	summary := batch.New(driver, 0, nil).Run(context.Background(), found)
	if summary.OK() {
		t.Fatal("expected ambiguous subjB to fail the batch")
	}
	if summary.Succeeded() != 1 || summary.Failed() != 1 {
		t.Fatalf("unexpected counts: succeeded=%d failed=%d", summary.Succeeded(), summary.Failed())
	}
	for _, name := range []string{"wm_left.mnc", "wm_right.mnc"} {
		if _, err := os.Stat(filepath.Join(out, "subjA", name)); err != nil {
			t.Fatalf("expected subjA/%s: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(out, "subjB", name)); !os.IsNotExist(err) {
			t.Fatalf("expected no subjB/%s, stat err %v", name, err)
		}
	}
	if n := testsupport.EntryCount(t, cfg.Paths.WorkDir); n != 0 {
		t.Fatalf("expected no leftover workspaces, found %d", n)
	}
	for _, r := range summary.Results {
		if strings.Contains(r.Pair.Input, "subjB") && r.OK() {
			t.Fatal("expected subjB to fail")
		}
	}
}
