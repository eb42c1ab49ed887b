// Package ingest loads the player and centroid tables from their static
// sources and assembles an immutable roles.Snapshot. Malformed rows are
// skipped and counted rather than failing the whole load.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"
)

// Source reads the two raw tables of one dataset version.
type Source interface {
	// Players returns the player rows in table order plus the attribute
	// column order of the source.
	Players() ([]roles.Player, []string, error)
	// Centroids returns the long-format centroid rows in table order.
	Centroids() ([]roles.CentroidRow, error)
}

// LoadSnapshot pulls both tables from the source and builds a snapshot.
func LoadSnapshot(src Source) (*roles.Snapshot, error) {
	start := time.Now()

	players, attrOrder, err := src.Players()
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	centroids, err := src.Centroids()
	if err != nil {
		return nil, fmt.Errorf("load centroids: %w", err)
	}

	snap := roles.NewSnapshot(players, centroids, attrOrder)
	telemetry.Metrics.LoadLatency.Record(time.Since(start))
	telemetry.Infof("ingest: snapshot loaded  players=%d  clusters=%d  attrs=%d  in %s",
		len(players), len(snap.ClusterIDs()), len(attrOrder), time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// reserved player-table columns that are not attribute codes.
var reservedColumns = map[string]struct{}{
	"Name":         {},
	"Club":         {},
	"CA":           {},
	"PA":           {},
	"role_cluster": {},
	"pc1":          {},
	"pc2":          {},
}

var knownAttrs = func() map[string]struct{} {
	m := make(map[string]struct{}, len(roles.ProfileAttributes))
	for _, a := range roles.ProfileAttributes {
		m[a] = struct{}{}
	}
	return m
}()

// attrColumns picks the attribute-code columns out of a player-table
// header, preserving column order. The attribute schema is a closed
// enumeration: columns outside it are reported once and dropped instead
// of being carried through as opaque data.
func attrColumns(header []string) []string {
	var attrs []string
	for _, col := range header {
		if _, ok := reservedColumns[col]; ok {
			continue
		}
		if isMembershipColumn(col) {
			continue
		}
		if _, ok := knownAttrs[col]; !ok {
			telemetry.Warnf("ingest: dropping unknown attribute column %q", col)
			continue
		}
		attrs = append(attrs, col)
	}
	return attrs
}

// isMembershipColumn reports whether col is a cluster_{k}_prob column.
func isMembershipColumn(col string) bool {
	if !strings.HasPrefix(col, "cluster_") || !strings.HasSuffix(col, "_prob") {
		return false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(col, "cluster_"), "_prob")
	if mid == "" {
		return false
	}
	for _, r := range mid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// membershipColumns returns cluster_0_prob..cluster_{K-1}_prob in cluster
// order, stopping at the first gap.
func membershipColumns(header []string) []string {
	have := make(map[string]struct{}, len(header))
	for _, col := range header {
		have[col] = struct{}{}
	}
	var cols []string
	for k := 0; ; k++ {
		col := fmt.Sprintf("cluster_%d_prob", k)
		if _, ok := have[col]; !ok {
			return cols
		}
		cols = append(cols, col)
	}
}
