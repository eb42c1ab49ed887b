package roles

import (
	"errors"
	"sort"
)

var (
	ErrPlayerNotFound  = errors.New("player not found in snapshot")
	ErrClusterNotFound = errors.New("cluster not found in snapshot")
)

const (
	cardMemberships = 3
	cardNeighbors   = 5
	reportAttrs     = 10
	reportPlayers   = 10
)

// Engine answers dashboard queries against one immutable snapshot.
type Engine struct {
	snap *Snapshot
	ids  IdentityTable
}

func NewEngine(snap *Snapshot, ids IdentityTable) *Engine {
	if ids == nil {
		ids = DefaultIdentities()
	}
	return &Engine{snap: snap, ids: ids}
}

// Snapshot exposes the engine's underlying snapshot handle.
func (e *Engine) Snapshot() *Snapshot { return e.snap }

// Search resolves free text to matching display names, ascending.
func (e *Engine) Search(query string) []string {
	return e.snap.index.Query(query)
}

// NeighborCard is one similar-player entry on a player card.
type NeighborCard struct {
	Name             string  `json:"name"`
	Club             string  `json:"club,omitempty"`
	CurrentAbility   int     `json:"current_ability"`
	PotentialAbility int     `json:"potential_ability"`
	Distance         float64 `json:"distance"`
}

// MembershipCard is one cluster-membership entry on a player card.
type MembershipCard struct {
	ClusterID   int     `json:"cluster_id"`
	ClusterName string  `json:"cluster_name"`
	Probability float64 `json:"probability"`
}

// PlayerCard is everything the player view renders for one player.
type PlayerCard struct {
	Name             string           `json:"name"`
	Club             string           `json:"club,omitempty"`
	CurrentAbility   int              `json:"current_ability"`
	PotentialAbility int              `json:"potential_ability"`
	ClusterID        int              `json:"cluster_id"`
	ClusterName      string           `json:"cluster_name"`
	CoordX           float64          `json:"coord_x"`
	CoordY           float64          `json:"coord_y"`
	Memberships      []MembershipCard `json:"memberships"`
	Neighbors        []NeighborCard   `json:"neighbors"`
	Comparison       Comparison       `json:"comparison"`
}

// PlayerCard assembles the full card for one player: basic info, primary
// role, top-3 memberships, top-5 same-cluster neighbors, and the
// attribute comparison against the player's own cluster centroid.
func (e *Engine) PlayerCard(name string) (PlayerCard, error) {
	p, ok := e.snap.PlayerByName(name)
	if !ok {
		return PlayerCard{}, ErrPlayerNotFound
	}

	card := PlayerCard{
		Name:             p.Name,
		Club:             p.Club,
		CurrentAbility:   p.CurrentAbility,
		PotentialAbility: p.PotentialAbility,
		ClusterID:        p.ClusterID,
		ClusterName:      e.ids.Name(p.ClusterID),
		CoordX:           p.CoordX,
		CoordY:           p.CoordY,
	}

	for _, m := range TopMemberships(p, cardMemberships) {
		card.Memberships = append(card.Memberships, MembershipCard{
			ClusterID:   m.ClusterID,
			ClusterName: e.ids.Name(m.ClusterID),
			Probability: m.Probability,
		})
	}

	for _, n := range Nearest(p, e.snap.Players(), cardNeighbors) {
		card.Neighbors = append(card.Neighbors, NeighborCard{
			Name:             n.Player.Name,
			Club:             n.Player.Club,
			CurrentAbility:   n.Player.CurrentAbility,
			PotentialAbility: n.Player.PotentialAbility,
			Distance:         n.Distance,
		})
	}

	var centroidZ map[string]float64
	if c, ok := e.snap.centroids.Centroid(p.ClusterID); ok {
		centroidZ = c.zscores
	}
	card.Comparison = BuildComparison(p.Attributes, centroidZ, RadarAttributes, e.snap.attrOrder)

	return card, nil
}

// RankedPlayer is one top-players-by-ability entry on a cluster report.
type RankedPlayer struct {
	Name             string `json:"name"`
	Club             string `json:"club,omitempty"`
	CurrentAbility   int    `json:"current_ability"`
	PotentialAbility int    `json:"potential_ability"`
}

// ClusterReport documents one role cluster: identity, discriminating
// attributes, strongest players, and headline statistics.
type ClusterReport struct {
	ClusterID            int              `json:"cluster_id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	PlayerCount          int              `json:"player_count"`
	MeanCurrentAbility   float64          `json:"mean_current_ability"`
	MeanPotentialAbility float64          `json:"mean_potential_ability"`
	TopAttributes        []AttributeScore `json:"top_attributes"`
	TopPlayers           []RankedPlayer   `json:"top_players"`
	ProfileAttrs         []string         `json:"profile_attributes"`
	ProfileValues        []float64        `json:"profile_values"`
}

// ClusterReport builds the documentation view for one cluster. A cluster
// id is known if either table (players or centroids) mentions it.
func (e *Engine) ClusterReport(clusterID int) (ClusterReport, error) {
	members := e.snap.PlayersInCluster(clusterID)
	centroid, hasCentroid := e.snap.centroids.Centroid(clusterID)
	if len(members) == 0 && !hasCentroid {
		return ClusterReport{}, ErrClusterNotFound
	}

	rep := ClusterReport{
		ClusterID:   clusterID,
		Name:        e.ids.Name(clusterID),
		Description: e.ids.Description(clusterID),
		PlayerCount: len(members),
	}

	if len(members) > 0 {
		var sumCA, sumPA int
		for _, p := range members {
			sumCA += p.CurrentAbility
			sumPA += p.PotentialAbility
		}
		rep.MeanCurrentAbility = float64(sumCA) / float64(len(members))
		rep.MeanPotentialAbility = float64(sumPA) / float64(len(members))

		ranked := make([]Player, len(members))
		copy(ranked, members)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].CurrentAbility > ranked[j].CurrentAbility
		})
		if len(ranked) > reportPlayers {
			ranked = ranked[:reportPlayers]
		}
		for _, p := range ranked {
			rep.TopPlayers = append(rep.TopPlayers, RankedPlayer{
				Name:             p.Name,
				Club:             p.Club,
				CurrentAbility:   p.CurrentAbility,
				PotentialAbility: p.PotentialAbility,
			})
		}
	}

	if hasCentroid {
		rep.TopAttributes = TopAttributes(centroid, reportAttrs)
		rep.ProfileAttrs, rep.ProfileValues = profileVector(centroid, ProfileAttributes)
	}

	return rep, nil
}

// profileVector projects the centroid's z-scores onto the display scale
// for the attributes in order that the centroid actually has.
func profileVector(c *Centroid, order []string) ([]string, []float64) {
	var attrs []string
	var values []float64
	for _, a := range order {
		z, ok := c.Z(a)
		if !ok {
			continue
		}
		attrs = append(attrs, a)
		values = append(values, DisplayScale(z))
	}
	return attrs, values
}

// ScatterPoint is one marker on the projection scatter plot.
type ScatterPoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ScatterSeries groups one cluster's points for the rendering layer.
type ScatterSeries struct {
	ClusterID   int            `json:"cluster_id"`
	ClusterName string         `json:"cluster_name"`
	Points      []ScatterPoint `json:"points"`
}

// Scatter returns per-cluster point series for the main projection plot.
// When filter is non-empty only those clusters are included; an unknown
// id in the filter simply contributes nothing.
func (e *Engine) Scatter(filter []int) []ScatterSeries {
	ids := e.snap.ClusterIDs()
	if len(filter) > 0 {
		keep := make(map[int]struct{}, len(filter))
		for _, id := range filter {
			keep[id] = struct{}{}
		}
		var kept []int
		for _, id := range ids {
			if _, ok := keep[id]; ok {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	out := make([]ScatterSeries, 0, len(ids))
	for _, id := range ids {
		series := ScatterSeries{ClusterID: id, ClusterName: e.ids.Name(id)}
		for _, p := range e.snap.PlayersInCluster(id) {
			series.Points = append(series.Points, ScatterPoint{Name: p.Name, X: p.CoordX, Y: p.CoordY})
		}
		out = append(out, series)
	}
	return out
}
