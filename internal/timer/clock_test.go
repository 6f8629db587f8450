package timer

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{name: "zero", clock: "00:00:00", want: 0},
		{name: "seconds only", clock: "00:00:45", want: 45},
		{name: "minutes and seconds", clock: "00:01:30", want: 90},
		{name: "hours", clock: "02:00:00", want: 7200},
		{name: "mixed", clock: "01:02:03", want: 3723},
		{name: "unpadded components", clock: "1:2:3", want: 3723},
		{name: "missing component", clock: "01:30", wantErr: true},
		{name: "empty", clock: "", wantErr: true},
		{name: "non-numeric", clock: "aa:bb:cc", wantErr: true},
		{name: "negative component", clock: "00:-1:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %d", tt.clock, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.clock, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00"},
		{name: "seconds", seconds: 45, want: "00:00:45"},
		{name: "minute boundary", seconds: 60, want: "00:01:00"},
		{name: "hour boundary", seconds: 3600, want: "01:00:00"},
		{name: "mixed", seconds: 3723, want: "01:02:03"},
		{name: "negative clamps to zero", seconds: -5, want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestClockRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00:01", "00:59:59", "10:00:30"} {
		seconds, err := ParseClock(clock)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", clock, err)
		}
		if got := FormatClock(seconds); got != clock {
			t.Errorf("round trip %q = %q", clock, got)
		}
	}
}
