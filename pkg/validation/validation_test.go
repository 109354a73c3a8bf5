package validation

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		errContains string
	}{
		{"simple", "alice", "alice", ""},
		{"punctuation", "bob.smith-2_x", "bob.smith-2_x", ""},
		{"trimmed", "  carol  ", "carol", ""},
		{"empty", "", "", "cannot be empty"},
		{"whitespace", "   ", "", "cannot be empty"},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), "", "too long"},
		{"max length", strings.Repeat("a", MaxUsernameLen), strings.Repeat("a", MaxUsernameLen), ""},
		{"control", "eve\x1b[2J", "", "control characters"},
		{"space inside", "dave jones", "", "invalid characters"},
		{"markup", "<script>", "", "invalid characters"},
		{"invalid utf8", "bad\xff", "", "invalid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUsername(tt.input)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("alice"); got != "alice" {
		t.Errorf("Expected alice, got %q", got)
	}
	if got := DisplayName("\x07"); got != GuestName {
		t.Errorf("Expected %q for an invalid name, got %q", GuestName, got)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name     string
		addr     net.Addr
		expected string
	}{
		{"ipv4", &net.TCPAddr{IP: net.ParseIP("192.0.2.7"), Port: 51234}, "192.0.2.7"},
		{"ipv6", &net.TCPAddr{IP: net.ParseIP("2001:db8::1"), Port: 22}, "2001:db8::1"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClientKey(tt.addr); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// fakeClock is advanced by hand
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(burst int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(burst, window)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_Burst(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("192.0.2.7") {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	if rl.Allow("192.0.2.7") {
		t.Error("Expected fourth request to be refused")
	}
	if !rl.Allow("198.51.100.1") {
		t.Error("Expected other clients to be unaffected")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)

	rl.Allow("a")
	rl.Allow("a")
	if rl.Allow("a") {
		t.Fatal("Expected bucket to be empty")
	}

	clock.t = clock.t.Add(20 * time.Second)
	if rl.Allow("a") {
		t.Error("Expected two thirds of a token to be too little")
	}

	clock.t = clock.t.Add(15 * time.Second)
	if !rl.Allow("a") {
		t.Error("Expected a token once the bucket refilled")
	}

	clock.t = clock.t.Add(10 * time.Minute)
	if !rl.Allow("a") || !rl.Allow("a") || rl.Allow("a") {
		t.Error("Expected refill to be capped at the burst size")
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	rl.Allow("old")
	clock.t = clock.t.Add(3 * time.Minute)
	rl.Allow("new")

	if rl.Len() != 1 {
		t.Errorf("Expected idle client pruned, tracking %d", rl.Len())
	}
}

func BenchmarkRateLimiter_Allow(b *testing.B) {
	rl := NewRateLimiter(100, time.Minute)
	for i := 0; i < b.N; i++ {
		rl.Allow("192.0.2.7")
	}
}
