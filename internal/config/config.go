package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"noteboard/internal/model"
)

type Config struct {
	Server   ServerConfig    `yaml:"server" json:"server"`
	Storage  StorageConfig   `yaml:"storage" json:"storage"`
	Calendar CalendarConfig  `yaml:"calendar" json:"calendar"`
	Views    ViewsConfig     `yaml:"views" json:"views"`
	Sections []SectionConfig `yaml:"sections" json:"sections"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

type StorageConfig struct {
	// Backend selects the settings store: "file" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type CalendarConfig struct {
	HorizonMonths int `yaml:"horizon_months" json:"horizon_months"`
}

type ViewsConfig struct {
	DefaultMode string `yaml:"default_mode" json:"default_mode"`
}

type SectionConfig struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
	Order int    `yaml:"order" json:"order"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8470
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Calendar.HorizonMonths == 0 {
		c.Calendar.HorizonMonths = 3
	}
	if c.Views.DefaultMode == "" {
		c.Views.DefaultMode = "flat"
	}
}

// Sections as model values; empty config means the default section only.
func (c *Config) SectionModels() []model.Section {
	if len(c.Sections) == 0 {
		return []model.Section{model.DefaultSection()}
	}
	out := make([]model.Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		out = append(out, model.Section{
			ID:    model.SectionID(s.ID),
			Name:  s.Name,
			Color: s.Color,
			Order: s.Order,
		})
	}
	return out
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
