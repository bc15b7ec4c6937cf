package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Document describes one MD&A PDF to index.
type Document struct {
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
	Company string `yaml:"company"`
	Year    string `yaml:"year"`
}

// Workbook describes one financial Excel workbook to index.
type Workbook struct {
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
	Company string `yaml:"company"`
}

// Manifest is the static list of source files the index builder processes.
// File locations and company/year tags live here rather than in code so a new
// company or fiscal year is a manifest edit, not a release.
type Manifest struct {
	DataDir   string     `yaml:"data_dir"`
	Documents []Document `yaml:"documents"`
	Workbooks []Workbook `yaml:"workbooks"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	for i, doc := range m.Documents {
		if doc.File == "" || doc.Company == "" || doc.Year == "" {
			return nil, fmt.Errorf("manifest document %d is missing file, company, or year", i)
		}
	}
	for i, wb := range m.Workbooks {
		if wb.File == "" || wb.Company == "" {
			return nil, fmt.Errorf("manifest workbook %d is missing file or company", i)
		}
	}

	return &m, nil
}

// DocumentPath resolves a document's location relative to the manifest data dir.
func (m *Manifest) DocumentPath(d Document) string {
	return filepath.Join(m.DataDir, d.Dir, d.File)
}

// WorkbookPath resolves a workbook's location relative to the manifest data dir.
func (m *Manifest) WorkbookPath(w Workbook) string {
	return filepath.Join(m.DataDir, w.Dir, w.File)
}
