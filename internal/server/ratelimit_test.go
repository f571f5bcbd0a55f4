package server

import (
	"testing"
	"time"
)

func TestIPLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst should admit two requests")
	}
	if l.Allow("a") {
		t.Error("third request inside a second should be limited")
	}
	if !l.Allow("b") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Error("bucket should refill after a second")
	}
}

func TestIPLimiterSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	if l.size() != 2 {
		t.Fatalf("size = %d, want 2", l.size())
	}

	now = now.Add(idleTTL + time.Second)
	l.Allow("c")
	if l.size() != 1 {
		t.Errorf("idle clients not swept, size = %d", l.size())
	}
}

func TestIPLimiterDisabled(t *testing.T) {
	if newIPLimiter(0, 5) != nil {
		t.Error("zero rate should disable limiting")
	}
}
