package news

import (
	"errors"
	"fmt"
	"strings"
)

// Explanation maps a keyword fragment to a "why read" line.
type Explanation struct {
	Keyword string `yaml:"keyword"`
	Text    string `yaml:"text"`
}

// Taxonomy is the static keyword configuration shared by the Scorer and the Annotator.
// Order matters everywhere: Include drives MatchedKeywords order and Explanations is
// scanned top to bottom, so both are slices rather than maps.
type Taxonomy struct {
	Domains      []string      `yaml:"domains"`
	Include      []string      `yaml:"include"`
	Exclude      []string      `yaml:"exclude"`
	Explanations []Explanation `yaml:"explanations"`
}

// Validate checks that the taxonomy can be used for scoring.
func (t Taxonomy) Validate() error {
	if len(t.Include) == 0 {
		return errors.New("taxonomy: include keyword list is empty")
	}
	for i, k := range t.Include {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("taxonomy: include keyword #%d is blank", i+1)
		}
	}
	for i, k := range t.Exclude {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("taxonomy: exclude keyword #%d is blank", i+1)
		}
	}
	for i, e := range t.Explanations {
		if strings.TrimSpace(e.Keyword) == "" || strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("taxonomy: explanation #%d needs both keyword and text", i+1)
		}
	}
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
