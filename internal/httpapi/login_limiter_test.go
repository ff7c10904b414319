package httpapi

import (
	"testing"
	"time"
)

func TestLoginLimiterAllowsUpToMax(t *testing.T) {
	l := newLoginLimiter(time.Minute, 3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("ip:203.0.113.9", now) {
			t.Fatalf("attempt %d unexpectedly limited", i+1)
		}
	}
	if l.Allow("ip:203.0.113.9", now) {
		t.Fatalf("expected attempt over limit to be rejected")
	}
}

func TestLoginLimiterKeysAreIndependent(t *testing.T) {
	l := newLoginLimiter(time.Minute, 1)
	now := time.Now()

	if !l.Allow("email:a@example.com", now) {
		t.Fatalf("first key unexpectedly limited")
	}
	if !l.Allow("email:b@example.com", now) {
		t.Fatalf("second key should not share the first key's budget")
	}
}

func TestLoginLimiterWindowExpires(t *testing.T) {
	l := newLoginLimiter(time.Minute, 1)
	now := time.Now()

	if !l.Allow("ip:203.0.113.9", now) {
		t.Fatalf("first attempt unexpectedly limited")
	}
	if l.Allow("ip:203.0.113.9", now.Add(30*time.Second)) {
		t.Fatalf("attempt inside window should be rejected")
	}
	if !l.Allow("ip:203.0.113.9", now.Add(2*time.Minute)) {
		t.Fatalf("attempt after window should be allowed")
	}
}
