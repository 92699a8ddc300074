package trip

import "teleport/internal/types"

// Interpolate returns the point at step/steps along the straight line from
// a to b. step is clamped into [0, steps].
func Interpolate(a, b types.Point, step, steps int) types.Point {
	if steps <= 0 || step >= steps {
		return b
	}
	if step <= 0 {
		return a
	}
	f := float64(step) / float64(steps)
	return types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lng: a.Lng + (b.Lng-a.Lng)*f,
	}
}
