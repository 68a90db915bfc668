package postgres

import "testing"

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to max", 0, 100},
		{"negative falls back to max", -5, 100},
		{"within range passes through", 25, 25},
		{"above max caps", 500, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampLimit(tc.in); got != tc.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestClampOffset(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"negative clamps to zero", -3, 0},
		{"zero passes through", 0, 0},
		{"positive passes through", 40, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampOffset(tc.in); got != tc.want {
				t.Errorf("clampOffset(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
