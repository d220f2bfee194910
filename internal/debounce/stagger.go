package debounce

import "time"

// RevealSchedule returns the start offset of each of n items revealed one
// after another, stagger apart.
func RevealSchedule(n int, stagger time.Duration) []time.Duration {
	if n <= 0 {
		return []time.Duration{}
	}
	if stagger < 0 {
		stagger = 0
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i) * stagger
	}
	return out
}
