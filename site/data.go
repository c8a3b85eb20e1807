package site

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawData []byte

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Hero struct {
	Announcement string `yaml:"announcement"`
	Headline     string `yaml:"headline"`
	Intro        string `yaml:"intro"`
	CTA          Link   `yaml:"cta"`
}

type Card struct {
	Title string `yaml:"title"`
	Blurb string `yaml:"blurb"`
	Href  string `yaml:"href"`
	Size  string `yaml:"size"`
}

type JourneyStop struct {
	ID      string   `yaml:"id"`
	Period  string   `yaml:"period"`
	Company string   `yaml:"company"`
	Role    string   `yaml:"role"`
	Points  []string `yaml:"points"`
}

type System struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Blurb string `yaml:"blurb"`
	Href  string `yaml:"href"`
	Group string `yaml:"group"`
}

type Item struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type LocalSetup struct {
	Intro    string `yaml:"intro"`
	Services []Item `yaml:"services"`
	Flow     []Item `yaml:"flow"`
	Channels []Item `yaml:"channels"`
}

// Data is the copy of the static pages.
type Data struct {
	Hero       Hero          `yaml:"hero"`
	Bento      []Card        `yaml:"bento"`
	Journey    []JourneyStop `yaml:"journey"`
	Systems    []System      `yaml:"systems"`
	LocalSetup LocalSetup    `yaml:"localSetup"`
}

// SystemsIn returns the systems of one group ("running" or "building").
func (d *Data) SystemsIn(group string) []System {
	var out []System
	for _, s := range d.Systems {
		if s.Group == group {
			out = append(out, s)
		}
	}
	return out
}

func LoadData() (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(rawData, &d); err != nil {
		return nil, fmt.Errorf("failed to parse site data: %w", err)
	}
	return &d, nil
}
