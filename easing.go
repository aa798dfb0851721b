package sprite

import "github.com/chewxy/math32"

// Easing functions map a normalized time t in [0,1] to a progress value,
// also nominally in [0,1]. They are pure and allocation-free, intended
// for caller-driven animation inside the per-frame hook.

// Linear returns t unchanged.
func Linear(t float32) float32 { return t }

// EaseInQuad accelerates from zero velocity.
func EaseInQuad(t float32) float32 { return t * t }

// EaseOutQuad decelerates to zero velocity.
func EaseOutQuad(t float32) float32 { return t * (2 - t) }

// EaseInOutQuad accelerates until halfway, then decelerates.
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseInCubic accelerates from zero velocity, more sharply than quad.
func EaseInCubic(t float32) float32 { return t * t * t }

// EaseOutCubic decelerates to zero velocity, more sharply than quad.
func EaseOutCubic(t float32) float32 {
	u := t - 1
	return u*u*u + 1
}

// EaseInOutCubic accelerates until halfway, then decelerates.
func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

// EaseInSine accelerates following a quarter sine wave.
func EaseInSine(t float32) float32 {
	return 1 - math32.Cos(t*math32.Pi/2)
}

// EaseOutSine decelerates following a quarter sine wave.
func EaseOutSine(t float32) float32 {
	return math32.Sin(t * math32.Pi / 2)
}

// EaseInOutSine accelerates then decelerates following a half sine wave.
func EaseInOutSine(t float32) float32 {
	return -(math32.Cos(math32.Pi*t) - 1) / 2
}
