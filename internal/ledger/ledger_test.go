package ledger

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

func TestLedger_LastReplyTime(t *testing.T) {
	l := New()

	if _, ok := l.LastReplyTime("hi-1"); ok {
		t.Fatal("expected no reply time for empty ledger")
	}

	l.Record("hi-1", at(0))
	l.Record("hi-2", at(10))
	l.Record("hi-1", at(20))

	got, ok := l.LastReplyTime("hi-1")
	if !ok {
		t.Fatal("expected reply time for hi-1")
	}
	if !got.Equal(at(20)) {
		t.Errorf("last reply time = %v, want %v", got, at(20))
	}
}

func TestLedger_CountSince(t *testing.T) {
	l := New()
	l.Record("a", at(0))
	l.Record("b", at(1800))
	l.Record("c", at(3599))

	tests := []struct {
		name   string
		now    time.Time
		window time.Duration
		want   int
	}{
		{"all inside", at(3600), time.Hour, 3},
		{"oldest aged out", at(3601), time.Hour, 2},
		{"cutoff boundary is inclusive", at(3600), 30 * time.Minute, 2},
		{"empty window", at(10000), time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.CountSince(tt.now, tt.window); got != tt.want {
				t.Errorf("CountSince = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLedger_OldestSince(t *testing.T) {
	l := New()

	if _, ok := l.OldestSince(at(0), time.Hour); ok {
		t.Fatal("expected no oldest record in empty ledger")
	}

	l.Record("a", at(100))
	l.Record("b", at(200))

	oldest, ok := l.OldestSince(at(300), time.Hour)
	if !ok || !oldest.Equal(at(100)) {
		t.Errorf("oldest = %v ok=%v, want %v", oldest, ok, at(100))
	}

	// Narrower window drops the earlier record.
	oldest, ok = l.OldestSince(at(220), 30*time.Second)
	if !ok || !oldest.Equal(at(200)) {
		t.Errorf("oldest = %v ok=%v, want %v", oldest, ok, at(200))
	}

	// Both records aged out.
	if oldest, ok = l.OldestSince(at(300), 30*time.Second); ok {
		t.Errorf("expected empty window, got %v", oldest)
	}
}

func TestLedger_PruneKeepsActiveWindow(t *testing.T) {
	l := New()
	l.Record("old", at(0))
	l.Record("cooldown", at(3500))
	l.Record("fresh", at(3900))

	// Horizon of one hour at t=4000: the record at t=0 is out, both others stay.
	l.Prune(at(4000), time.Hour)

	if l.Len() != 2 {
		t.Fatalf("ledger length = %d, want 2", l.Len())
	}
	if _, ok := l.LastReplyTime("old"); ok {
		t.Error("expected record for 'old' to be pruned")
	}
	if _, ok := l.LastReplyTime("cooldown"); !ok {
		t.Error("record still inside the horizon was pruned")
	}
}

func TestLedger_PruneBoundary(t *testing.T) {
	l := New()
	l.Record("edge", at(0))

	// Exactly at the horizon the record is kept.
	l.Prune(at(3600), time.Hour)
	if l.Len() != 1 {
		t.Fatalf("record exactly at horizon was pruned")
	}

	l.Prune(at(3601), time.Hour)
	if l.Len() != 0 {
		t.Fatalf("record past horizon survived prune")
	}
}
