package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dclough/roledash/internal/roles"
)

type identityFile struct {
	Clusters map[int]roles.Identity `yaml:"clusters"`
}

// LoadIdentities reads the curated cluster identity file. A missing file
// is not an error — the shipped k=5 defaults apply; a present but broken
// file is, since it means the dataset and its documentation disagree.
func LoadIdentities(path string) (roles.IdentityTable, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return roles.DefaultIdentities(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cluster identities: %w", err)
	}

	var file identityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse cluster identities: %w", err)
	}
	if len(file.Clusters) == 0 {
		return roles.DefaultIdentities(), nil
	}
	return roles.IdentityTable(file.Clusters), nil
}
