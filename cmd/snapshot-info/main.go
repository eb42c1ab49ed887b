// snapshot-info loads a dataset snapshot and prints per-cluster statistics,
// for eyeballing a new export before pointing the dashboard at it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/dclough/roledash/internal/config"
	"github.com/dclough/roledash/internal/ingest"
	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"
)

func main() {
	playersCSV := flag.String("players", "data/players_with_role_clusters.csv", "player table CSV")
	centroidsCSV := flag.String("centroids", "data/cluster_centroids.csv", "centroid table CSV")
	db := flag.String("db", "", "SQLite export (overrides the CSV flags)")
	identities := flag.String("identities", "internal/config/clusters.yaml", "cluster identity YAML")
	topAttrs := flag.Int("attrs", 5, "discriminating attributes to show per cluster")
	flag.Parse()

	telemetry.Init(slog.LevelWarn)

	var src ingest.Source = ingest.CSVSource{PlayersPath: *playersCSV, CentroidsPath: *centroidsCSV}
	if *db != "" {
		src = ingest.SQLiteSource{Path: *db}
	}

	snap, err := ingest.LoadSnapshot(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load snapshot: %v\n", err)
		os.Exit(1)
	}
	ids, err := config.LoadIdentities(*identities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load identities: %v\n", err)
		os.Exit(1)
	}

	engine := roles.NewEngine(snap, ids)

	fmt.Printf("players: %d   clusters: %d   attribute columns: %d\n\n",
		len(snap.Players()), len(snap.ClusterIDs()), len(snap.AttributeOrder()))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "cluster\trole\tplayers\tavg CA\tavg PA\tkey attributes")
	for _, id := range snap.ClusterIDs() {
		rep, err := engine.ClusterReport(id)
		if err != nil {
			continue
		}
		attrs := rep.TopAttributes
		if len(attrs) > *topAttrs {
			attrs = attrs[:*topAttrs]
		}
		attrStr := ""
		for i, a := range attrs {
			if i > 0 {
				attrStr += " "
			}
			attrStr += fmt.Sprintf("%s(%+.2f)", a.Attr, a.Z)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t%.1f\t%s\n",
			id, rep.Name, rep.PlayerCount, rep.MeanCurrentAbility, rep.MeanPotentialAbility, attrStr)
	}
	w.Flush()
}
