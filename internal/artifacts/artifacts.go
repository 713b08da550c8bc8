// Package artifacts reads the batch definition listing the artifacts to
// ingest: JDK releases, Android platforms and Maven libraries, each with the
// SCIP index and source tree produced for it.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"javabrowser/internal/errors"
)

// DefaultFile is the batch definition looked up in the workspace root.
const DefaultFile = "artifacts.toml"

// Kind is the family an artifact belongs to.
type Kind string

const (
	KindJava    Kind = "java"
	KindOldJava Kind = "oldjava"
	KindAndroid Kind = "android"
	KindMaven   Kind = "maven"
)

// Artifact is one versioned source corpus.
type Artifact struct {
	Kind    Kind   `toml:"kind" yaml:"kind"`
	Version string `toml:"version" yaml:"version"`

	// GroupID and Name are the Maven coordinates; only used by KindMaven.
	GroupID string `toml:"group_id,omitempty" yaml:"groupId,omitempty"`
	Name    string `toml:"artifact_id,omitempty" yaml:"artifactId,omitempty"`

	// Index is the SCIP index of the compiled sources.
	Index string `toml:"index" yaml:"index"`
	// SourceRoot is the directory document paths in the index are relative to.
	SourceRoot string `toml:"source_root" yaml:"sourceRoot"`

	// Dependencies are artifact ids in classpath priority order.
	Dependencies []string `toml:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	Metadata Metadata `toml:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ID returns the artifact id used in URLs and as classpath entry.
func (a Artifact) ID() string {
	switch a.Kind {
	case KindJava, KindOldJava:
		return "java/" + a.Version
	case KindAndroid:
		return "android/" + a.Version
	default:
		return a.GroupID + "/" + a.Name + "/" + a.Version
	}
}

// Classpath returns the artifact followed by its dependencies.
func (a Artifact) Classpath() []string {
	return append([]string{a.ID()}, a.Dependencies...)
}

// Batch is a parsed batch definition.
type Batch struct {
	Artifacts []Artifact `toml:"artifact" yaml:"artifacts"`

	path string
}

// Path returns the file the batch was loaded from.
func (b *Batch) Path() string {
	return b.path
}

// Find returns the artifact with the given id.
func (b *Batch) Find(id string) (Artifact, bool) {
	for _, a := range b.Artifacts {
		if a.ID() == id {
			return a, true
		}
	}
	return Artifact{}, false
}

// Load parses a batch definition. TOML and YAML are accepted, chosen by the
// file extension. Relative index and source paths are resolved against the
// file's directory and per-artifact metadata files are merged in.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.InvalidConfig, fmt.Sprintf("failed to read %s", path), err)
	}

	var batch Batch
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &batch)
	default:
		_, err = toml.Decode(string(data), &batch)
	}
	if err != nil {
		return nil, errors.New(errors.InvalidConfig, fmt.Sprintf("failed to parse %s", path), err)
	}
	batch.path = path

	dir := filepath.Dir(path)
	for i := range batch.Artifacts {
		a := &batch.Artifacts[i]
		a.Index = resolve(dir, a.Index)
		a.SourceRoot = resolve(dir, a.SourceRoot)
		if err := a.mergeMetadataFile(); err != nil {
			return nil, err
		}
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}
	return &batch, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks every artifact and rejects duplicate ids.
func (b *Batch) Validate() error {
	seen := make(map[string]bool, len(b.Artifacts))
	var duplicates []string
	for i, a := range b.Artifacts {
		if err := a.validate(); err != nil {
			return errors.New(errors.InvalidConfig, fmt.Sprintf("artifact #%d", i+1), err)
		}
		id := a.ID()
		if seen[id] {
			duplicates = append(duplicates, id)
		}
		seen[id] = true
	}
	if len(duplicates) > 0 {
		return errors.New(errors.DuplicateArtifact,
			fmt.Sprintf("duplicate artifacts: %s", strings.Join(duplicates, ", ")), nil).
			WithDetails(map[string]interface{}{"artifacts": duplicates})
	}
	return nil
}

func (a Artifact) validate() error {
	switch a.Kind {
	case KindJava, KindOldJava, KindAndroid:
	case KindMaven:
		if a.GroupID == "" || a.Name == "" {
			return fmt.Errorf("maven artifact needs group_id and artifact_id")
		}
	case "":
		return fmt.Errorf("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}
	if a.Version == "" {
		return fmt.Errorf("%s artifact has no version", a.Kind)
	}
	if a.Index == "" {
		return fmt.Errorf("%s has no index", a.ID())
	}
	for _, dep := range a.Dependencies {
		if dep == a.ID() {
			return fmt.Errorf("%s depends on itself", a.ID())
		}
	}
	return nil
}
