package timer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts an HH:MM:SS string into a count of whole seconds.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM:SS", clock)
	}

	values := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock %q: bad component %q", clock, part)
		}
		values[i] = n
	}

	return values[0]*3600 + values[1]*60 + values[2], nil
}

// FormatClock renders a count of seconds as HH:MM:SS with each component
// padded to two digits. Negative input clamps to zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
