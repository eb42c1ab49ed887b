package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"
)

// CSVSource reads the dataset from the upstream pipeline's two CSV
// exports: one row per player, one row per (cluster, attribute).
type CSVSource struct {
	PlayersPath   string
	CentroidsPath string
}

func (s CSVSource) Players() ([]roles.Player, []string, error) {
	f, err := os.Open(s.PlayersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open players csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row length validated against the header below

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read players header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for name := range reservedColumns {
		if _, ok := col[name]; !ok && name != "Club" {
			return nil, nil, fmt.Errorf("players csv: missing required column %q", name)
		}
	}

	probCols := membershipColumns(header)
	if len(probCols) == 0 {
		return nil, nil, fmt.Errorf("players csv: no cluster_{k}_prob columns")
	}
	attrOrder := attrColumns(header)

	var players []roles.Player
	for rowNum := 2; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("players csv row %d: %w", rowNum, err)
		}
		if len(record) != len(header) {
			telemetry.Metrics.MalformedPlayerRows.Inc()
			telemetry.Warnf("ingest: players row %d has %d fields, want %d — skipped", rowNum, len(record), len(header))
			continue
		}

		p, err := buildPlayer(record, col, probCols, attrOrder)
		if err != nil {
			telemetry.Metrics.MalformedPlayerRows.Inc()
			telemetry.Warnf("ingest: players row %d: %v — skipped", rowNum, err)
			continue
		}
		players = append(players, p)
	}
	return players, attrOrder, nil
}

func buildPlayer(record []string, col map[string]int, probCols, attrOrder []string) (roles.Player, error) {
	field := func(name string) string { return record[col[name]] }

	name := field("Name")
	if name == "" {
		return roles.Player{}, fmt.Errorf("empty Name")
	}
	ca, err := strconv.Atoi(field("CA"))
	if err != nil {
		return roles.Player{}, fmt.Errorf("bad CA %q", field("CA"))
	}
	pa, err := strconv.Atoi(field("PA"))
	if err != nil {
		return roles.Player{}, fmt.Errorf("bad PA %q", field("PA"))
	}
	cluster, err := strconv.Atoi(field("role_cluster"))
	if err != nil {
		return roles.Player{}, fmt.Errorf("bad role_cluster %q", field("role_cluster"))
	}
	x, err := strconv.ParseFloat(field("pc1"), 64)
	if err != nil {
		return roles.Player{}, fmt.Errorf("bad pc1 %q", field("pc1"))
	}
	y, err := strconv.ParseFloat(field("pc2"), 64)
	if err != nil {
		return roles.Player{}, fmt.Errorf("bad pc2 %q", field("pc2"))
	}

	memberships := make([]float64, len(probCols))
	for k, pc := range probCols {
		v, err := strconv.ParseFloat(field(pc), 64)
		if err != nil {
			return roles.Player{}, fmt.Errorf("bad %s %q", pc, field(pc))
		}
		memberships[k] = v
	}

	// attribute cells are best-effort: an unparseable rating is absent,
	// not a reason to drop the row
	attrs := make(map[string]float64, len(attrOrder))
	for _, a := range attrOrder {
		if v, err := strconv.ParseFloat(field(a), 64); err == nil {
			attrs[a] = v
		}
	}

	var club string
	if i, ok := col["Club"]; ok {
		club = record[i]
	}

	return roles.Player{
		Name:             name,
		Club:             club,
		CurrentAbility:   ca,
		PotentialAbility: pa,
		ClusterID:        cluster,
		CoordX:           x,
		CoordY:           y,
		Memberships:      memberships,
		Attributes:       attrs,
	}, nil
}

func (s CSVSource) Centroids() ([]roles.CentroidRow, error) {
	f, err := os.Open(s.CentroidsPath)
	if err != nil {
		return nil, fmt.Errorf("open centroids csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read centroids header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"cluster", "attr", "z"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("centroids csv: missing required column %q", name)
		}
	}

	var rows []roles.CentroidRow
	for rowNum := 2; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("centroids csv row %d: %w", rowNum, err)
		}
		if len(record) != len(header) {
			telemetry.Metrics.MalformedCentroidRows.Inc()
			telemetry.Warnf("ingest: centroids row %d has %d fields, want %d — skipped", rowNum, len(record), len(header))
			continue
		}

		cluster, cErr := strconv.Atoi(record[col["cluster"]])
		attr := record[col["attr"]]
		z, zErr := strconv.ParseFloat(record[col["z"]], 64)
		if cErr != nil || zErr != nil || attr == "" {
			telemetry.Metrics.MalformedCentroidRows.Inc()
			telemetry.Warnf("ingest: centroids row %d malformed — skipped", rowNum)
			continue
		}
		if _, ok := knownAttrs[attr]; !ok {
			telemetry.Debugf("ingest: centroids row %d has unknown attribute code %q — skipped", rowNum, attr)
			continue
		}
		rows = append(rows, roles.CentroidRow{ClusterID: cluster, Attr: attr, Z: z})
	}
	return rows, nil
}
