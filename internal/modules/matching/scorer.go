// README: Assignment scorer picks the best-fit courier for a pickup point.
package matching

import (
	"math"

	"teleport/internal/types"
)

// ApproxKm is a planar distance in degrees scaled to km. It is only good for
// relative ranking; billing uses location.DistanceKm.
func ApproxKm(a, b types.Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * kmPerDegree
}

// Score = rating*10 - approxKm*2 - load*5.
func Score(c Courier, target types.Point) float64 {
	return c.Rating*ratingWeight - ApproxKm(c.Position, target)*distanceWeight - float64(c.Load)*loadWeight
}

// Assign returns the courier with the strictly highest score; the earliest
// courier wins a tie. An empty pool yields the first DefaultCouriers entry
// with Fallback set. It never fails.
func Assign(target types.Point, pool []Courier) AssignmentResult {
	if len(pool) == 0 {
		fb := DefaultCouriers[0]
		return AssignmentResult{Courier: fb, Score: Score(fb, target), Fallback: true}
	}
	best := AssignmentResult{Courier: pool[0], Score: Score(pool[0], target)}
	for _, c := range pool[1:] {
		if s := Score(c, target); s > best.Score {
			best = AssignmentResult{Courier: c, Score: s}
		}
	}
	return best
}
