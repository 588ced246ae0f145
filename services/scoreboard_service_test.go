package services

import "testing"

func TestClampDeltaFloorsAtZero(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value int64
		delta int64
		want  int64
	}{
		{"increment", 5, 3, 8},
		{"decrement", 5, -3, 2},
		{"decrement to zero", 5, -5, 0},
		{"decrement past zero clamps", 5, -9, 0},
		{"decrement from zero clamps", 0, -1, 0},
		{"zero delta", 7, 0, 7},
		{"large negative", 1, -1 << 40, 0},
	}
	for _, tc := range cases {
		if got := clampDelta(tc.value, tc.delta); got != tc.want {
			t.Fatalf("%s: clampDelta(%d, %d) got=%d want=%d", tc.name, tc.value, tc.delta, got, tc.want)
		}
	}
}
