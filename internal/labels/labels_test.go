package labels

import (
	"context"
	"math"
	"reflect"
	"testing"

	"lgdhemis/internal/toolexec"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		v    float64
		want Class
	}{
		{-3, BG},
		{0, BG},
		{0.4999, BG},
		{0.5, WM},
		{1, WM},
		{93.5, WM},
		{94, CSF},
		{95, CSF},
		{95.5, WM},
		{99.5, WM},
		{100, CSF},
		{101, CSF},
		{101.5, WM},
		{111.5, WM},
		{112, GM},
		{113, GM},
		{113.5, WM},
		{123.5, WM},
		{124, CSF},
		{124.5, WM},
		{160, WM},
		{math.Inf(1), WM},
		{math.Inf(-1), BG},
		{math.NaN(), WM},
	}
	for _, tc := range cases {
		if got := Classify(tc.v); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	saved := Rules
	t.Cleanup(func() { Rules = saved })
	Rules = []Rule{
		{Name: "first", Lower: bound(10), Upper: bound(20), Class: CSF},
		{Name: "overlap", Lower: bound(15), Upper: bound(25), Class: GM},
	}
	if got := Classify(17); got != CSF {
		t.Fatalf("expected earlier rule to win, got %v", got)
	}
	if got := Classify(22); got != GM {
		t.Fatalf("expected second rule for 22, got %v", got)
	}
}

func TestMaskValueBoundaries(t *testing.T) {
	cases := []struct {
		v    float64
		want uint8
	}{
		{0.0, 0},
		{0.5, 0},
		{0.5000001, 1},
		{1.0, 1},
		{-1, 0},
		{250, 1},
	}
	for _, tc := range cases {
		if got := MaskValue(tc.v); got != tc.want {
			t.Errorf("MaskValue(%v) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestClassifyExpression(t *testing.T) {
	want := "if(A[0]<0.5){out=0}" +
		" else if(A[0]>123.5&&A[0]<124.5){out=1}" +
		" else if(A[0]>99.5&&A[0]<101.5){out=1}" +
		" else if(A[0]>93.5&&A[0]<95.5){out=1}" +
		" else if(A[0]>111.5&&A[0]<113.5){out=2}" +
		" else {out=3}"
	if got := ClassifyExpression(); got != want {
		t.Fatalf("ClassifyExpression() =\n%s\nwant\n%s", got, want)
	}
	if got := MaskExpression(); got != "A[0]>0.5" {
		t.Fatalf("MaskExpression() = %q", got)
	}
}

func TestRuleInterval(t *testing.T) {
	if got := Rules[0].Interval(); got != "v < 0.5" {
		t.Fatalf("unexpected interval %q", got)
	}
	if got := Rules[2].Interval(); got != "99.5 < v < 101.5" {
		t.Fatalf("unexpected interval %q", got)
	}
}

type recordingRunner struct {
	calls []toolexec.Command
	err   error
}

func (r *recordingRunner) Run(_ context.Context, cmd toolexec.Command) (toolexec.Result, error) {
	r.calls = append(r.calls, cmd)
	return toolexec.Result{}, r.err
}

func TestCalculatorInvocations(t *testing.T) {
	runner := &recordingRunner{}
	calc := NewCalculator("minccalc", runner, nil)

	if err := calc.BuildMask(context.Background(), "/in/seg.mnc", "/tmp/ws/brain_mask.mnc"); err != nil {
		t.Fatalf("BuildMask: %v", err)
	}
	if err := calc.Remap(context.Background(), "/in/seg.mnc", "/tmp/ws/classified.mnc"); err != nil {
		t.Fatalf("Remap: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(runner.calls))
	}

	wantMask := []string{"minccalc", "-quiet", "-unsigned", "-byte", "-expr", "A[0]>0.5", "/in/seg.mnc", "/tmp/ws/brain_mask.mnc"}
	if got := runner.calls[0].Argv(); !reflect.DeepEqual(got, wantMask) {
		t.Fatalf("mask argv = %v, want %v", got, wantMask)
	}
	wantRemap := []string{"minccalc", "-quiet", "-unsigned", "-byte", "-expr", ClassifyExpression(), "/in/seg.mnc", "/tmp/ws/classified.mnc"}
	if got := runner.calls[1].Argv(); !reflect.DeepEqual(got, wantRemap) {
		t.Fatalf("remap argv = %v, want %v", got, wantRemap)
	}
}

func TestCalculatorPropagatesFailure(t *testing.T) {
	want := &toolexec.CommandError{Argv: []string{"minccalc"}, ExitCode: 1, Err: toolexec.ErrExitStatus}
	calc := NewCalculator("minccalc", &recordingRunner{err: want}, nil)
	if err := calc.Remap(context.Background(), "a.mnc", "b.mnc"); err != want {
		t.Fatalf("expected runner error to be returned unchanged, got %v", err)
	}
}
