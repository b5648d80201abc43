package cattery

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	for i := 0; i < 2; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		limiter.Record(ip)
	}
	if limiter.Check(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	ip := "203.0.113.15"

	// Repeated checks without a recorded failure must never lock the IP
	// out: successful logins only call Check.
	for i := 0; i < 10; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d should pass when no failures were recorded", i+1)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected block after the recorded failure")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected block within the window")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)

	limiter.Record("203.0.113.30")
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected first IP to be blocked")
	}
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected second IP to be allowed independently")
	}
}
