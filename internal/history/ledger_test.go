package history

import (
	"fmt"
	"testing"
	"time"
)

func TestLedgerRecordNewestFirst(t *testing.T) {
	l := NewLedger(20)
	l.Record("first", nil)
	l.Record("second", nil)
	l.Record("third", nil)

	got := l.Entries()
	if len(got) != 3 {
		t.Fatalf("Len = %d, want 3", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].Text != want {
			t.Errorf("entries[%d].Text = %q, want %q", i, got[i].Text, want)
		}
	}
}

func TestLedgerEvictsOldestBeyondCapacity(t *testing.T) {
	l := NewLedger(20)
	for i := 0; i < 25; i++ {
		l.Record(fmt.Sprintf("scan %d", i), nil)
	}

	if l.Len() != 20 {
		t.Fatalf("Len = %d, want 20", l.Len())
	}
	got := l.Entries()
	if got[0].Text != "scan 24" {
		t.Errorf("newest = %q, want scan 24", got[0].Text)
	}
	if got[19].Text != "scan 5" {
		t.Errorf("oldest retained = %q, want scan 5", got[19].Text)
	}
}

func TestLedgerDefaultCapacity(t *testing.T) {
	l := NewLedger(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		l.Record("x", nil)
	}
	if l.Len() != DefaultCapacity {
		t.Errorf("Len = %d, want %d", l.Len(), DefaultCapacity)
	}
}

func TestLedgerEntryFields(t *testing.T) {
	l := NewLedger(5)
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	thumb := []byte{0x89, 0x50, 0x4e, 0x47}
	e := l.Record("captured", thumb)

	if e.ID != fixed.UnixMilli() {
		t.Errorf("ID = %d, want %d", e.ID, fixed.UnixMilli())
	}
	if e.Date != "2026-03-14 09:26:53" {
		t.Errorf("Date = %q", e.Date)
	}
	if string(e.Thumbnail) != string(thumb) {
		t.Error("thumbnail not retained")
	}
}

func TestLedgerEntriesIsSnapshot(t *testing.T) {
	l := NewLedger(5)
	l.Record("a", nil)
	snap := l.Entries()
	l.Record("b", nil)
	if len(snap) != 1 || snap[0].Text != "a" {
		t.Error("snapshot mutated by later record")
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"page one"}, "page one"},
		{"two pages blank line between", []string{"page one", "page two"}, "page one\n\npage two"},
		{"error text keeps its slot", []string{"ok", "Error: boom", "after"}, "ok\n\nError: boom\n\nafter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Aggregate
			for _, p := range tt.parts {
				a.Append(p)
			}
			if got := a.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if a.Len() != len(tt.parts) {
				t.Errorf("Len() = %d, want %d", a.Len(), len(tt.parts))
			}
		})
	}
}
