package ingest

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads the dataset from the upstream pipeline's SQLite
// export: a `players` table mirroring the player CSV columns and a
// long-format `centroids` table (cluster, attr, z). The file is opened
// read-only; this process never writes.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+s.Path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s SQLiteSource) Players() ([]roles.Player, []string, error) {
	db, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT * FROM players`)
	if err != nil {
		return nil, nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("players columns: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for name := range reservedColumns {
		if _, ok := col[name]; !ok && name != "Club" {
			return nil, nil, fmt.Errorf("players table: missing required column %q", name)
		}
	}

	probCols := membershipColumns(header)
	if len(probCols) == 0 {
		return nil, nil, fmt.Errorf("players table: no cluster_{k}_prob columns")
	}
	attrOrder := attrColumns(header)

	var players []roles.Player
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rowNum := 1; rows.Next(); rowNum++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("players row %d: %w", rowNum, err)
		}
		// route through the CSV row builder so both sources share the
		// same validation and malformed-row accounting
		record := make([]string, len(header))
		for i, v := range values {
			record[i] = cellString(v)
		}
		p, err := buildPlayer(record, col, probCols, attrOrder)
		if err != nil {
			telemetry.Metrics.MalformedPlayerRows.Inc()
			telemetry.Warnf("ingest: players row %d: %v — skipped", rowNum, err)
			continue
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("players rows: %w", err)
	}
	return players, attrOrder, nil
}

func (s SQLiteSource) Centroids() ([]roles.CentroidRow, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT cluster, attr, z FROM centroids`)
	if err != nil {
		return nil, fmt.Errorf("query centroids: %w", err)
	}
	defer rows.Close()

	var out []roles.CentroidRow
	for rowNum := 1; rows.Next(); rowNum++ {
		var (
			cluster sql.NullInt64
			attr    sql.NullString
			z       sql.NullFloat64
		)
		if err := rows.Scan(&cluster, &attr, &z); err != nil {
			return nil, fmt.Errorf("centroids row %d: %w", rowNum, err)
		}
		if !cluster.Valid || !attr.Valid || attr.String == "" || !z.Valid {
			telemetry.Metrics.MalformedCentroidRows.Inc()
			telemetry.Warnf("ingest: centroids row %d malformed — skipped", rowNum)
			continue
		}
		if _, ok := knownAttrs[attr.String]; !ok {
			telemetry.Debugf("ingest: centroids row %d has unknown attribute code %q — skipped", rowNum, attr.String)
			continue
		}
		out = append(out, roles.CentroidRow{ClusterID: int(cluster.Int64), Attr: attr.String, Z: z.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("centroids rows: %w", err)
	}
	return out, nil
}

// cellString renders a scanned SQLite value the way it would appear in
// the CSV export. NULL becomes the empty string.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
