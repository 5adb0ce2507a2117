package history

import (
	"fmt"
	"testing"
	"time"
)

func TestHistory(t *testing.T) {
	h := NewBuffer(5)

	now := time.Now()
	for i := 0; i < 7; i++ {
		h.Push(fmt.Sprintf("B %d.00", i), now.Add(time.Duration(i)*time.Second))
	}

	if h.Len() != 5 {
		t.Errorf("expected 5 lines, got %d", h.Len())
	}

	if h.Dropped() != 2 {
		t.Errorf("Dropped(): got %d, want 2", h.Dropped())
	}

	last, ok := h.Last()
	if !ok || last.Text != "B 6.00" {
		t.Errorf("Last(): got %q (ok=%v), want \"B 6.00\"", last.Text, ok)
	}

	lines := h.LastN(3)
	if len(lines) != 3 {
		t.Fatalf("LastN(3): got %d lines, want 3", len(lines))
	}
	for i, want := range []string{"B 4.00", "B 5.00", "B 6.00"} {
		if lines[i].Text != want {
			t.Errorf("LastN(3)[%d]: got %q, want %q", i, lines[i].Text, want)
		}
	}
}

func TestLastNBeforeWrap(t *testing.T) {
	h := NewBuffer(100)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	for i := 0; i < 10; i++ {
		h.Push(fmt.Sprintf("F %d", i), base.Add(time.Duration(i)*time.Second))
	}

	lines := h.LastN(500)
	if len(lines) != 10 {
		t.Fatalf("LastN(500): got %d, want 10", len(lines))
	}
	if lines[0].Text != "F 0" {
		t.Errorf("first line: got %q, want \"F 0\"", lines[0].Text)
	}
	if lines[9].Time != base.Add(9*time.Second) {
		t.Errorf("last line time: got %v, want %v", lines[9].Time, base.Add(9*time.Second))
	}
	if h.Dropped() != 0 {
		t.Errorf("Dropped(): got %d, want 0", h.Dropped())
	}
}

func TestEmpty(t *testing.T) {
	h := NewBuffer(0)
	if h.Cap() != 1 {
		t.Errorf("Cap(): got %d, want 1", h.Cap())
	}
	if _, ok := h.Last(); ok {
		t.Error("Last() on empty buffer should report false")
	}
	if got := h.LastN(3); got != nil {
		t.Errorf("LastN on empty buffer: got %v, want nil", got)
	}
}
