package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadIdentitiesMissingFileUsesDefaults(t *testing.T) {
	ids, err := LoadIdentities(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if ids.Name(0) != "Deep Controller" {
		t.Errorf("default name(0) = %q", ids.Name(0))
	}
}

func TestLoadIdentitiesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	contents := `clusters:
  0:
    name: Sweeper Keeper
    description: Keepers who play out from the back.
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := LoadIdentities(path)
	if err != nil {
		t.Fatalf("LoadIdentities failed: %v", err)
	}
	if ids.Name(0) != "Sweeper Keeper" {
		t.Errorf("name(0) = %q, want Sweeper Keeper", ids.Name(0))
	}
	// clusters absent from the file fall back to the generic label
	if ids.Name(3) != "Cluster 3" {
		t.Errorf("name(3) = %q, want Cluster 3", ids.Name(3))
	}
}

func TestLoadIdentitiesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	if err := os.WriteFile(path, []byte("clusters: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIdentities(path); err == nil {
		t.Error("expected parse error for broken identity file")
	}
}
