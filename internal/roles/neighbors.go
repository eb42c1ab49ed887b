package roles

import (
	"math"
	"sort"
)

// Neighbor pairs a candidate player with its distance from the target
// in the 2-D projection space.
type Neighbor struct {
	Player   Player
	Distance float64
}

// Nearest ranks same-cluster candidates by Euclidean distance from the
// target and returns the k closest, ascending. Projection coordinates are
// only comparable within a cluster, so cross-cluster candidates are never
// considered. The target itself is excluded by name. Ties keep the
// candidates' original table order, so results are reproducible for a
// fixed snapshot. Returns fewer than k entries when fewer candidates exist.
func Nearest(target Player, candidates []Player, k int) []Neighbor {
	if k <= 0 {
		return nil
	}

	var out []Neighbor
	for _, c := range candidates {
		if c.ClusterID != target.ClusterID || c.Name == target.Name {
			continue
		}
		dx := c.CoordX - target.CoordX
		dy := c.CoordY - target.CoordY
		out = append(out, Neighbor{Player: c, Distance: math.Hypot(dx, dy)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
