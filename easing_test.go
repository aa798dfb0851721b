package sprite

import "testing"

func TestEasingEndpoints(t *testing.T) {
	funcs := []struct {
		name string
		f    func(float32) float32
	}{
		{"Linear", Linear},
		{"EaseInQuad", EaseInQuad},
		{"EaseOutQuad", EaseOutQuad},
		{"EaseInOutQuad", EaseInOutQuad},
		{"EaseInCubic", EaseInCubic},
		{"EaseOutCubic", EaseOutCubic},
		{"EaseInOutCubic", EaseInOutCubic},
		{"EaseInSine", EaseInSine},
		{"EaseOutSine", EaseOutSine},
		{"EaseInOutSine", EaseInOutSine},
	}
	for _, tt := range funcs {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f(0); !approxEq(got, 0) {
				t.Errorf("f(0) = %g, want 0", got)
			}
			if got := tt.f(1); !approxEq(got, 1) {
				t.Errorf("f(1) = %g, want 1", got)
			}
			// Monotonic over [0,1].
			prev := tt.f(0)
			for i := 1; i <= 10; i++ {
				cur := tt.f(float32(i) / 10)
				if cur < prev-epsilon {
					t.Errorf("f not monotonic at t=%g: %g < %g", float32(i)/10, cur, prev)
				}
				prev = cur
			}
		})
	}
}

func TestEaseInOutSymmetry(t *testing.T) {
	// In-out curves pass through the midpoint exactly.
	for _, tt := range []struct {
		name string
		f    func(float32) float32
	}{
		{"EaseInOutQuad", EaseInOutQuad},
		{"EaseInOutCubic", EaseInOutCubic},
		{"EaseInOutSine", EaseInOutSine},
	} {
		if got := tt.f(0.5); !approxEq(got, 0.5) {
			t.Errorf("%s(0.5) = %g, want 0.5", tt.name, got)
		}
	}
}
