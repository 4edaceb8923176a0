package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a full plan backup: one row per stored step plus the holiday
// list. Dates are written dd/mm/yyyy.
type Document struct {
	Plan     []PlanRow    `json:"plan" yaml:"plan"`
	Holidays []HolidayRow `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// PlanRow is one step of one site.
type PlanRow struct {
	SiteName  string `json:"site_name" yaml:"site_name"`
	Owner     string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	Task      string `json:"task" yaml:"task"`
	Start     string `json:"start,omitempty" yaml:"start,omitempty"`
	Finish    string `json:"finish,omitempty" yaml:"finish,omitempty"`
	Duration  int    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Confirmed string `json:"confirmed,omitempty" yaml:"confirmed,omitempty"`
	Done      string `json:"done,omitempty" yaml:"done,omitempty"`
	SiteID    string `json:"site_id,omitempty" yaml:"site_id,omitempty"`
	Order     int    `json:"order,omitempty" yaml:"order,omitempty"`
	Version   int    `json:"version,omitempty" yaml:"version,omitempty"`
	// Excluded rows carry no dates; they record that the site skips Task.
	Excluded string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

type HolidayRow struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported plan file extension %q (use .json, .yaml or .yml)", ext)
	}
}

// LoadDocument reads a plan document, choosing JSON or YAML by extension.
func LoadDocument(path string) (*Document, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &doc, nil
}

// WriteDocument writes doc to path in the format its extension names.
func WriteDocument(path string, doc *Document) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
