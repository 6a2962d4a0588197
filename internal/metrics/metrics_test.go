package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksStoreOps(t *testing.T) {
	rec := NewRecorder()
	rec.RecordStoreOp("memory", "insert", 10*time.Millisecond, nil)
	rec.RecordStoreOp("memory", "insert", 15*time.Millisecond, errors.New("boom"))
	rec.RecordStoreOp("memory", "find_all", time.Millisecond, nil)

	snap := rec.Snapshot(StoreKey("memory", "insert"))
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.LastLatency != 15*time.Millisecond {
		t.Fatalf("expected last latency 15ms, got %s", snap.LastLatency)
	}
	if got := rec.Snapshot(StoreKey("memory", "find_all")).Calls; got != 1 {
		t.Fatalf("expected 1 find_all call, got %d", got)
	}
}

func TestRecorderTracksDirectoryLoads(t *testing.T) {
	rec := NewRecorder()
	rec.RecordDirectoryLoad(5*time.Millisecond, errors.New("missing"))
	rec.RecordDirectoryLoad(2*time.Millisecond, nil)

	snap := rec.Snapshot(DirectoryKey)
	if snap.Calls != 2 || snap.Errors != 1 || snap.LastLatency != 2*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderUnknownKeyIsZero(t *testing.T) {
	if snap := NewRecorder().Snapshot("nope"); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordStoreOp("memory", "insert", time.Millisecond, nil)
	rec.RecordDirectoryLoad(time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/games", 200, time.Millisecond)
	if snap := rec.Snapshot(DirectoryKey); snap.Calls != 0 {
		t.Fatalf("expected zero snapshot from nil recorder")
	}
}
