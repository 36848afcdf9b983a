// Package catalog holds the studio's static lookup data: company profile,
// team members, portfolio projects and service offerings. The data is
// configuration, not logic; it is loaded from a YAML file at startup with an
// embedded default so the binary runs standalone.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Company is the studio profile returned by the company info lookup.
type Company struct {
	Name     string `yaml:"name"`
	Tagline  string `yaml:"tagline"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	About    string `yaml:"about"`
}

// TeamMember describes one person in the studio directory.
type TeamMember struct {
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Skills   []string `yaml:"skills"`
	Projects []string `yaml:"projects"`
	Bio      string   `yaml:"bio"`
}

// Project describes one portfolio entry.
type Project struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Stack       []string `yaml:"stack"`
	URL         string   `yaml:"url"`
}

// Service describes one offering with its starting terms.
type Service struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	StartingPrice string `yaml:"starting_price"`
	Timeline      string `yaml:"timeline"`
}

// Catalog is the full static dataset.
type Catalog struct {
	Company  Company      `yaml:"company"`
	Team     []TeamMember `yaml:"team"`
	Projects []Project    `yaml:"projects"`
	Services []Service    `yaml:"services"`
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// FindTeamMember matches a team member by case-insensitive name containment
// in either direction, so "Alex" finds "Alex Rivera" and vice versa.
func (c *Catalog) FindTeamMember(name string) (TeamMember, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return TeamMember{}, false
	}
	for _, m := range c.Team {
		have := strings.ToLower(m.Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return m, true
		}
	}
	return TeamMember{}, false
}

// FindProject matches a portfolio project by case-insensitive name containment.
func (c *Catalog) FindProject(name string) (Project, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Project{}, false
	}
	for _, p := range c.Projects {
		have := strings.ToLower(p.Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return p, true
		}
	}
	return Project{}, false
}
