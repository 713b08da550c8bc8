package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"javabrowser/internal/errors"
)

// MetadataFile is the optional per-artifact description file in a source root.
const MetadataFile = "ARTIFACT.toml"

// Metadata describes an artifact on its overview page.
type Metadata struct {
	Description string   `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	License     string   `toml:"license,omitempty" yaml:"license,omitempty" json:"license,omitempty"`
	URL         string   `toml:"url,omitempty" yaml:"url,omitempty" json:"url,omitempty"`
	Tags        []string `toml:"tags,omitempty" yaml:"tags,omitempty" json:"tags,omitempty"`
}

// ParseMetadataFile parses an ARTIFACT.toml file.
func ParseMetadataFile(filePath string) (*Metadata, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", MetadataFile, err)
	}

	var md Metadata
	if err := toml.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", MetadataFile, err)
	}
	return &md, nil
}

// mergeMetadataFile fills fields the batch definition left empty from the
// source root's ARTIFACT.toml, if there is one.
func (a *Artifact) mergeMetadataFile() error {
	if a.SourceRoot == "" {
		return nil
	}
	filePath := filepath.Join(a.SourceRoot, MetadataFile)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	md, err := ParseMetadataFile(filePath)
	if err != nil {
		return errors.New(errors.InvalidConfig, a.ID(), err)
	}
	if a.Metadata.Description == "" {
		a.Metadata.Description = md.Description
	}
	if a.Metadata.License == "" {
		a.Metadata.License = md.License
	}
	if a.Metadata.URL == "" {
		a.Metadata.URL = md.URL
	}
	if len(a.Metadata.Tags) == 0 {
		a.Metadata.Tags = md.Tags
	}
	return nil
}
