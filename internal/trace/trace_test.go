package trace_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/trace"
)

func TestSpanRecordsBeginAndEnd(t *testing.T) {
	r := trace.NewRing(16)
	err := r.Span("hir-lower", func() error { return nil })
	if err != nil {
		t.Fatalf("Span returned %v", err)
	}

	events := r.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != trace.KindBegin || events[0].Phase != "hir-lower" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Kind != trace.KindEnd || events[1].Note != "ok" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestSpanPropagatesErrorAndRecordsNote(t *testing.T) {
	r := trace.NewRing(16)
	boom := errors.New("boom")
	err := r.Span("mir-lower", func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Span did not propagate the error: got %v", err)
	}
	events := r.Snapshot()
	if events[len(events)-1].Note != "boom" {
		t.Fatalf("expected failure note, got %+v", events[len(events)-1])
	}
}

func TestSnapshotWrapsAroundCapacity(t *testing.T) {
	r := trace.NewRing(4)
	for i := 0; i < 3; i++ {
		r.Begin("phase")
		r.End("phase", "")
	}
	// 6 events emitted against a capacity-4 ring: only the last 4 survive,
	// in chronological (not slot) order.
	events := r.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("events out of chronological order: %+v", events)
		}
	}
	if events[0].Seq != 3 {
		t.Fatalf("expected the oldest surviving event to be seq 3, got %d", events[0].Seq)
	}
}

func TestDumpFormatsEveryEvent(t *testing.T) {
	r := trace.NewRing(8)
	r.Begin("load")
	r.End("load", "ok")

	var buf bytes.Buffer
	if err := r.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "begin") || !strings.Contains(out, "load") {
		t.Fatalf("dump output missing expected fields: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 lines, got: %q", out)
	}
}
