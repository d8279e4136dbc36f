package alerts

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Links holds the operator console paths attached to notifications as
// ActionURL. They are never dereferenced here.
type Links struct {
	Security      string `yaml:"security"`
	Logins        string `yaml:"logins"`
	Admins        string `yaml:"admins"`
	Subscriptions string `yaml:"subscriptions"`
	Plans         string `yaml:"plans"`
	Backups       string `yaml:"backups"`
	System        string `yaml:"system"`
	Database      string `yaml:"database"`
	Revenue       string `yaml:"revenue"`
}

// DefaultLinks returns the stock console paths.
func DefaultLinks() Links {
	return Links{
		Security:      "/admin/security",
		Logins:        "/admin/security/logins",
		Admins:        "/admin/admins",
		Subscriptions: "/admin/subscriptions",
		Plans:         "/admin/plans",
		Backups:       "/admin/backups",
		System:        "/admin/system",
		Database:      "/admin/database",
		Revenue:       "/admin/revenue",
	}
}

// LoadLinks reads YAML overrides on top of DefaultLinks. Keys left out keep
// their default; unknown keys are an error.
func LoadLinks(r io.Reader) (Links, error) {
	links := DefaultLinks()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&links); err != nil && !errors.Is(err, io.EOF) {
		return Links{}, fmt.Errorf("alerts: decode links: %w", err)
	}
	return links, nil
}
