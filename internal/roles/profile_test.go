package roles

import (
	"math"
	"testing"
)

func TestDisplayScale(t *testing.T) {
	cases := []struct {
		z    float64
		want float64
	}{
		{0, 10},
		{3, 19.99},
		{-3, 0.01},
		{1, 13.33},
		{10, 20},  // clamped
		{-10, 0},  // clamped
		{100, 20}, // indistinguishable from +3σ and beyond
	}
	for _, c := range cases {
		got := DisplayScale(c.z)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("DisplayScale(%v) = %v, want %v", c.z, got, c.want)
		}
	}
}

func TestBuildComparisonParallelVectors(t *testing.T) {
	playerAttrs := map[string]float64{"Pas": 1.5, "Tck": -2.0, "Vis": 0}
	centroidZ := map[string]float64{"Pas": 0.5, "Tck": -1.0}

	cmp := BuildComparison(playerAttrs, centroidZ, []string{"Pas", "Tck", "Vis"}, nil)

	if len(cmp.Attributes) != 3 || len(cmp.Player) != 3 || len(cmp.Centroid) != 3 {
		t.Fatalf("vectors not parallel: %+v", cmp)
	}
	if cmp.Attributes[0] != "Pas" || cmp.Attributes[1] != "Tck" || cmp.Attributes[2] != "Vis" {
		t.Errorf("attribute order not preserved: %v", cmp.Attributes)
	}
	if math.Abs(cmp.Player[0]-14.995) > 1e-9 {
		t.Errorf("player Pas = %v, want 14.995", cmp.Player[0])
	}
	if math.Abs(cmp.Centroid[0]-11.665) > 1e-9 {
		t.Errorf("centroid Pas = %v, want 11.665", cmp.Centroid[0])
	}
	// Vis missing from the centroid: raw 0 means "exactly average", i.e. 10
	if cmp.Centroid[2] != 10 {
		t.Errorf("missing centroid attribute = %v, want 10 (average fallback)", cmp.Centroid[2])
	}
}

func TestBuildComparisonSkipsAttrsPlayerLacks(t *testing.T) {
	playerAttrs := map[string]float64{"Pas": 1.0}
	cmp := BuildComparison(playerAttrs, nil, []string{"Pas", "Fin"}, nil)

	if len(cmp.Attributes) != 1 || cmp.Attributes[0] != "Pas" {
		t.Errorf("attributes = %v, want [Pas] only", cmp.Attributes)
	}
}

func TestBuildComparisonFallbackPrefix(t *testing.T) {
	// none of the preferred attributes exist on the player: fall back to
	// the first 12 the player does have, in column order
	playerAttrs := make(map[string]float64)
	playerOrder := []string{
		"Cor", "Cro", "Hea", "Lon", "Pen", "Fla",
		"Agg", "Bra", "Cmp2", "Ldr", "OtB", "Tea",
		"Agi", "Bal",
	}
	for _, a := range playerOrder {
		playerAttrs[a] = 0.5
	}

	cmp := BuildComparison(playerAttrs, nil, []string{"Pas", "Tck"}, playerOrder)
	if len(cmp.Attributes) != 12 {
		t.Fatalf("fallback length = %d, want 12", len(cmp.Attributes))
	}
	for i, a := range playerOrder[:12] {
		if cmp.Attributes[i] != a {
			t.Errorf("fallback[%d] = %q, want %q", i, cmp.Attributes[i], a)
		}
	}
}

func TestBuildComparisonEmptyWhenNoData(t *testing.T) {
	cmp := BuildComparison(nil, nil, []string{"Pas"}, nil)
	if len(cmp.Attributes) != 0 {
		t.Errorf("expected empty comparison with no player data, got %v", cmp.Attributes)
	}
}
