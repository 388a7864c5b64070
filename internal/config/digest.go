package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/dailydigest/internal/news"
	"github.com/deusflow/dailydigest/internal/rss"
)

//go:embed defaults.yaml
var defaultDigestYAML []byte

// Digest is the YAML document with the feed list and keyword taxonomy.
//
//	sources:
//	  - name: wsj
//	    url: https://...
//	taxonomy:
//	  include: [...]
type Digest struct {
	Sources  []rss.Source  `yaml:"sources"`
	Taxonomy news.Taxonomy `yaml:"taxonomy"`
}

// DefaultDigest returns the built-in feed list and taxonomy.
func DefaultDigest() (*Digest, error) {
	d, err := parseDigest(defaultDigestYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in digest config: %w", err)
	}
	return d, nil
}

// LoadDigestFile reads a digest document from path. Environment variables in
// the file are expanded before parsing.
func LoadDigestFile(path string) (*Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read digest config %s: %w", path, err)
	}

	d, err := parseDigest([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse digest config %s: %w", path, err)
	}
	return d, nil
}

func parseDigest(data []byte) (*Digest, error) {
	var d Digest
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
