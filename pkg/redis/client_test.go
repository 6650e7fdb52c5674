package redis

import "testing"

func TestRateLimitKey(t *testing.T) {
	if got := rateLimitKey(42, "voucher"); got != "ratelimit:42:voucher" {
		t.Errorf("rateLimitKey = %q", got)
	}
}

func TestNewKeepsTTL(t *testing.T) {
	c := New("localhost:6379", "", 0, 0)
	defer c.Close()

	if c.Redis() == nil {
		t.Fatal("Redis() = nil")
	}
	if c.TTL() != 0 {
		t.Errorf("TTL() = %v, want 0", c.TTL())
	}
}
