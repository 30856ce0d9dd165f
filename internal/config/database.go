// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	DefaultLocator = "sqlite:inventory_v2.db"
	SchemeSQLite   = "sqlite"
	memoryStore    = ":memory:"
)

// Locator is a parsed store identifier of the form "<scheme>:<name>".
type Locator struct {
	Scheme string
	Name   string
}

func ParseLocator(raw string) (Locator, error) {
	scheme, name, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || scheme == "" || name == "" {
		return Locator{}, fmt.Errorf("invalid store locator %q: expected <scheme>:<name>", raw)
	}

	if scheme != SchemeSQLite {
		return Locator{}, fmt.Errorf("unsupported store scheme %q", scheme)
	}

	return Locator{Scheme: scheme, Name: name}, nil
}

func (l Locator) String() string {
	return l.Scheme + ":" + l.Name
}

func (l Locator) InMemory() bool {
	return l.Name == memoryStore
}

// Path resolves the store file. Relative names live under dataDir.
func (l Locator) Path(dataDir string) string {
	if l.InMemory() || filepath.IsAbs(l.Name) {
		return l.Name
	}
	return filepath.Join(dataDir, l.Name)
}

func (d *DatabaseConfig) Path() (string, error) {
	locator, err := ParseLocator(d.Locator)
	if err != nil {
		return "", err
	}
	return locator.Path(d.DataDir), nil
}

func (d *DatabaseConfig) DSN() (string, error) {
	locator, err := ParseLocator(d.Locator)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", d.BusyTimeout))
	if !locator.InMemory() {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	params.Set("_txlock", "immediate")
	params.Set("_time_format", "sqlite")

	return locator.Path(d.DataDir) + "?" + params.Encode(), nil
}
