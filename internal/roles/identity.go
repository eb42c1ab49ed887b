package roles

import "fmt"

// Identity is the human-readable documentation for one role cluster.
// It is curated data maintained alongside the dataset version, never
// derived from the tables.
type Identity struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// IdentityTable maps cluster id to its curated identity.
type IdentityTable map[int]Identity

// Name returns the display name for a cluster, falling back to
// "Cluster N" when the table has no entry.
func (t IdentityTable) Name(clusterID int) string {
	if id, ok := t[clusterID]; ok && id.Name != "" {
		return id.Name
	}
	return fmt.Sprintf("Cluster %d", clusterID)
}

// Description returns the cluster description, or a placeholder.
func (t IdentityTable) Description(clusterID int) string {
	if id, ok := t[clusterID]; ok && id.Description != "" {
		return id.Description
	}
	return "No description available."
}

// DefaultIdentities covers the shipped k=5 role clustering. A dataset with
// a different k should ship its own identity file.
func DefaultIdentities() IdentityTable {
	return IdentityTable{
		0: {
			Name:        "Deep Controller",
			Description: "Deep-lying playmakers who control the tempo from deeper positions. Strong passing, vision, and positioning.",
		},
		1: {
			Name:        "Final-Third Creator",
			Description: "Creative players who operate in the final third. Excellent passing, vision, and technical ability.",
		},
		2: {
			Name:        "Defensive Anchor",
			Description: "Defensive specialists who anchor the team. Strong physical attributes, tackling, marking, and positioning.",
		},
		3: {
			Name:        "Wide Attacker",
			Description: "Wide attacking players with pace, dribbling, and finishing ability. Operate in wide areas and attack spaces.",
		},
		4: {
			Name:        "Box-to-Box Engine",
			Description: "Dynamic midfielders who cover ground. Balance of defensive and attacking attributes with good stamina.",
		},
	}
}
