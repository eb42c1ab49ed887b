package roles

import (
	"math"
	"sort"
)

// RadarAttributes is the canonical 12-attribute order used for
// player-vs-centroid comparison vectors.
var RadarAttributes = []string{
	"Pas", "Tec", "Vis", "Dec", "Fir", "Dri",
	"Fin", "Tck", "Mar", "Pos", "Ant", "Cmp",
}

// ProfileAttributes is the wider 18-attribute order used for full role
// profiles on the cluster report.
var ProfileAttributes = []string{
	"Pas", "Tec", "Vis", "Dec", "Fir", "Dri",
	"Fin", "Tck", "Mar", "Pos", "Ant", "Cmp",
	"Cnt", "Det", "Wor", "Sta", "Pac", "Str",
}

// fallbackAttrCount caps the arbitrary-prefix fallback in BuildComparison.
const fallbackAttrCount = 12

// DisplayScale maps a standardized score onto the conventional 1-20 rating
// scale: 0σ lands on the midpoint 10, ±3σ saturate at the extremes. The
// clamp is deliberately lossy — anything beyond ±3σ reads the same as ±3σ.
func DisplayScale(z float64) float64 {
	v := 10 + z*3.33
	return math.Min(20, math.Max(0, v))
}

// AttributeScore pairs an attribute code with its standardized value.
type AttributeScore struct {
	Attr string
	Z    float64
}

// TopAttributes ranks a centroid's attributes by descending absolute
// z-score and returns the first n. Extremely low attributes are as
// diagnostic of a role as extremely high ones, hence the absolute value.
// Ties keep the centroid's attribute insertion order.
func TopAttributes(c *Centroid, n int) []AttributeScore {
	if c == nil {
		return nil
	}
	out := make([]AttributeScore, 0, len(c.order))
	for _, attr := range c.order {
		out = append(out, AttributeScore{Attr: attr, Z: c.zscores[attr]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Z) > math.Abs(out[j].Z)
	})

	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Comparison holds parallel display-scale vectors for a player and its
// cluster centroid, in matching attribute order.
type Comparison struct {
	Attributes []string  `json:"attributes"`
	Player     []float64 `json:"player"`
	Centroid   []float64 `json:"centroid"`
}

// BuildComparison assembles a player-vs-centroid comparison over a fixed
// attribute order. Attributes missing from either source count as raw 0,
// i.e. exactly average — an acknowledged averaging assumption, not an
// error. If none of the preferred attributes exist on the player at all,
// the comparison falls back to the first 12 attributes the player does
// have (in playerOrder), so it is never empty while any data exists.
func BuildComparison(playerAttrs, centroidZ map[string]float64, order, playerOrder []string) Comparison {
	var attrs []string
	for _, a := range order {
		if _, ok := playerAttrs[a]; ok {
			attrs = append(attrs, a)
		}
	}
	if len(attrs) == 0 {
		for _, a := range playerOrder {
			if _, ok := playerAttrs[a]; !ok {
				continue
			}
			attrs = append(attrs, a)
			if len(attrs) == fallbackAttrCount {
				break
			}
		}
	}

	cmp := Comparison{
		Attributes: attrs,
		Player:     make([]float64, len(attrs)),
		Centroid:   make([]float64, len(attrs)),
	}
	for i, a := range attrs {
		cmp.Player[i] = DisplayScale(playerAttrs[a])
		cmp.Centroid[i] = DisplayScale(centroidZ[a])
	}
	return cmp
}
