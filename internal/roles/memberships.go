package roles

import "sort"

// Membership is a player's soft-assignment weight for one cluster.
type Membership struct {
	ClusterID   int
	Probability float64
}

// TopMemberships returns the player's n strongest cluster memberships,
// descending by score. Ties keep ascending cluster-id order. Scores are
// reported raw: they are rank-comparable but not guaranteed to sum to 1,
// so no renormalization happens here.
func TopMemberships(p Player, n int) []Membership {
	if n <= 0 {
		return nil
	}
	out := make([]Membership, len(p.Memberships))
	for k, prob := range p.Memberships {
		out[k] = Membership{ClusterID: k, Probability: prob}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})

	if n < len(out) {
		out = out[:n]
	}
	return out
}
