package roles

import (
	"sort"

	"github.com/dclough/roledash/internal/telemetry"
)

// CentroidRow is one (cluster, attribute) row of the centroid table.
type CentroidRow struct {
	ClusterID int
	Attr      string
	Z         float64
}

// Centroid is one cluster's standardized attribute profile: how far the
// cluster average sits from the population mean, in standard deviations,
// per attribute. An absent attribute means "no data", not "average".
type Centroid struct {
	zscores map[string]float64
	order   []string // attribute insertion order, for deterministic ties
}

// Z looks up the standardized value for an attribute code.
func (c *Centroid) Z(attr string) (float64, bool) {
	z, ok := c.zscores[attr]
	return z, ok
}

// Attributes returns the attribute codes in insertion order.
func (c *Centroid) Attributes() []string { return c.order }

// CentroidStore groups centroid rows per cluster.
type CentroidStore struct {
	byCluster map[int]*Centroid
}

// BuildCentroids reshapes long-format rows into per-cluster profiles.
// A duplicate (cluster, attribute) pair overwrites the earlier value —
// last write wins. That mirrors the upstream export's behavior; duplicates
// point at a data-quality problem there, so they are logged.
func BuildCentroids(rows []CentroidRow) CentroidStore {
	store := CentroidStore{byCluster: make(map[int]*Centroid)}
	for _, row := range rows {
		c, ok := store.byCluster[row.ClusterID]
		if !ok {
			c = &Centroid{zscores: make(map[string]float64)}
			store.byCluster[row.ClusterID] = c
		}
		if _, dup := c.zscores[row.Attr]; dup {
			telemetry.Debugf("centroids: duplicate row cluster=%d attr=%s, keeping later value", row.ClusterID, row.Attr)
		} else {
			c.order = append(c.order, row.Attr)
		}
		c.zscores[row.Attr] = row.Z
	}
	return store
}

// Centroid returns the profile for a cluster, if the table had rows for it.
func (s CentroidStore) Centroid(clusterID int) (*Centroid, bool) {
	c, ok := s.byCluster[clusterID]
	return c, ok
}

// ClusterIDs returns the cluster ids present in the store, ascending.
func (s CentroidStore) ClusterIDs() []int {
	ids := make([]int, 0, len(s.byCluster))
	for id := range s.byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
