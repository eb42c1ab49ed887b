package roles

import (
	"sort"

	"github.com/dclough/roledash/internal/telemetry"
)

// Player is one row of the player table. Memberships is indexed by
// cluster id; ClusterID is the primary (argmax) assignment made upstream —
// it is trusted, never recomputed here.
type Player struct {
	Name             string
	Club             string
	CurrentAbility   int
	PotentialAbility int
	ClusterID        int
	CoordX           float64
	CoordY           float64
	Memberships      []float64
	Attributes       map[string]float64
}

// Snapshot is one immutable load of the dataset: players in table order,
// the prebuilt search index, and the reshaped centroid store. All query
// components read from a Snapshot handle; reloading the dataset builds a
// whole new Snapshot rather than mutating this one.
type Snapshot struct {
	players   []Player
	byName    map[string]int
	index     *SearchIndex
	centroids CentroidStore
	attrOrder []string
	clusters  []int
}

// NewSnapshot assembles a snapshot from already-typed rows. attrOrder is
// the attribute column order of the source table; it fixes the otherwise
// arbitrary ordering of per-player attribute maps.
func NewSnapshot(players []Player, centroidRows []CentroidRow, attrOrder []string) *Snapshot {
	byName := make(map[string]int, len(players))
	kept := make([]Player, 0, len(players))
	names := make([]string, 0, len(players))
	clusterSet := make(map[int]struct{})
	for _, p := range players {
		if _, dup := byName[p.Name]; dup {
			// names are the dataset's unique key; keep the first row
			telemetry.Warnf("snapshot: duplicate player name %q, keeping first row", p.Name)
			continue
		}
		byName[p.Name] = len(kept)
		kept = append(kept, p)
		names = append(names, p.Name)
		clusterSet[p.ClusterID] = struct{}{}
	}

	clusters := make([]int, 0, len(clusterSet))
	for id := range clusterSet {
		clusters = append(clusters, id)
	}
	sort.Ints(clusters)

	return &Snapshot{
		players:   kept,
		byName:    byName,
		index:     BuildIndex(names),
		centroids: BuildCentroids(centroidRows),
		attrOrder: attrOrder,
		clusters:  clusters,
	}
}

// Players returns all players in original table order. Callers must treat
// the slice as read-only.
func (s *Snapshot) Players() []Player { return s.players }

// PlayerByName looks up a player by exact display name.
func (s *Snapshot) PlayerByName(name string) (Player, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Player{}, false
	}
	return s.players[i], true
}

// PlayersInCluster returns the cluster's players in table order.
func (s *Snapshot) PlayersInCluster(clusterID int) []Player {
	var out []Player
	for _, p := range s.players {
		if p.ClusterID == clusterID {
			out = append(out, p)
		}
	}
	return out
}

// ClusterIDs returns the distinct primary cluster ids, ascending.
func (s *Snapshot) ClusterIDs() []int { return s.clusters }

// Index returns the snapshot's prebuilt search index.
func (s *Snapshot) Index() *SearchIndex { return s.index }

// Centroids returns the snapshot's centroid store.
func (s *Snapshot) Centroids() CentroidStore { return s.centroids }

// AttributeOrder returns the attribute column order of the player table.
func (s *Snapshot) AttributeOrder() []string { return s.attrOrder }
