package roles

import "testing"

func TestTopMemberships(t *testing.T) {
	p := Player{Name: "X", Memberships: []float64{0.05, 0.60, 0.10, 0.20, 0.05}}

	got := TopMemberships(p, 3)
	if len(got) != 3 {
		t.Fatalf("got %d memberships, want 3", len(got))
	}

	want := []Membership{
		{ClusterID: 1, Probability: 0.60},
		{ClusterID: 3, Probability: 0.20},
		{ClusterID: 2, Probability: 0.10},
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("membership[%d] = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestTopMembershipsTieBreaksAscendingClusterID(t *testing.T) {
	p := Player{Name: "X", Memberships: []float64{0.25, 0.25, 0.50}}

	got := TopMemberships(p, 3)
	want := []int{2, 0, 1}
	for i, id := range want {
		if got[i].ClusterID != id {
			t.Errorf("membership[%d].ClusterID = %d, want %d", i, got[i].ClusterID, id)
		}
	}
}

func TestTopMembershipsNoRenormalization(t *testing.T) {
	// scores don't sum to 1 and must be reported raw
	p := Player{Name: "X", Memberships: []float64{0.9, 0.8, 0.7}}

	got := TopMemberships(p, 2)
	if got[0].Probability != 0.9 || got[1].Probability != 0.8 {
		t.Errorf("probabilities altered: %+v", got)
	}
}
