package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Policy lists the jurisdictions whose address space is blocked.
type Policy struct {
	// States are US state names as they appear in the geolocation data.
	States []string `yaml:"states"`
	// Countries are ISO-3166 alpha-2 codes.
	Countries []string `yaml:"countries"`
}

// DefaultPolicy returns the built-in jurisdiction lists.
func DefaultPolicy() *Policy {
	return &Policy{
		States: []string{
			"Alabama", "Arkansas", "Florida", "Georgia", "Idaho", "Indiana",
			"Kansas", "Kentucky", "Louisiana", "Mississippi", "Missouri", "Montana",
			"Nebraska", "North Carolina", "North Dakota", "Ohio", "Oklahoma",
			"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah",
			"Virginia", "Wyoming",
		},
		Countries: []string{"GB", "FR", "DE", "IT", "DK", "AU"},
	}
}

// LoadPolicy reads a YAML policy file. An empty path returns DefaultPolicy.
// Lists missing from the file fall back to the defaults.
func LoadPolicy(filePath string) (*Policy, error) {
	if filePath == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", filePath, err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy file %s: %w", filePath, err)
	}

	def := DefaultPolicy()
	if p.States == nil {
		p.States = def.States
	}
	if p.Countries == nil {
		p.Countries = def.Countries
	}

	return &p, nil
}

// Label returns the jurisdiction label for a geolocated row, or false when
// neither the state nor the country is blocked. US states take precedence
// and are labeled "US <state>".
func (p *Policy) Label(country, state string) (string, bool) {
	if country == "US" && slices.Contains(p.States, state) {
		return "US " + state, true
	}
	if slices.Contains(p.Countries, country) {
		return country, true
	}
	return "", false
}
