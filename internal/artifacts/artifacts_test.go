package artifacts

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"javabrowser/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifacts.toml")
	writeFile(t, path, `
[[artifact]]
kind = "java"
version = "21"
index = "idx/jdk21.scip"
source_root = "src/jdk21"

[[artifact]]
kind = "maven"
group_id = "com.google.guava"
artifact_id = "guava"
version = "33.0-jre"
index = "/abs/guava.scip"
dependencies = ["java/21"]

[artifact.metadata]
license = "Apache-2.0"
`)

	batch, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(batch.Artifacts) != 2 {
		t.Fatalf("got %d artifacts", len(batch.Artifacts))
	}

	jdk := batch.Artifacts[0]
	if jdk.ID() != "java/21" {
		t.Errorf("ID = %q", jdk.ID())
	}
	if jdk.Index != filepath.Join(dir, "idx/jdk21.scip") {
		t.Errorf("Index not resolved: %q", jdk.Index)
	}

	guava, ok := batch.Find("com.google.guava/guava/33.0-jre")
	if !ok {
		t.Fatal("guava not found")
	}
	if guava.Index != "/abs/guava.scip" {
		t.Errorf("absolute index rewritten: %q", guava.Index)
	}
	if guava.Metadata.License != "Apache-2.0" {
		t.Errorf("metadata = %+v", guava.Metadata)
	}
	if got := guava.Classpath(); !reflect.DeepEqual(got, []string{"com.google.guava/guava/33.0-jre", "java/21"}) {
		t.Errorf("Classpath = %v", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifacts.yaml")
	writeFile(t, path, `
artifacts:
  - kind: android
    version: "14"
    index: android.scip
    sourceRoot: android
  - kind: oldjava
    version: "8"
    index: jdk8.scip
`)
	batch, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, a := range batch.Artifacts {
		ids = append(ids, a.ID())
	}
	if !reflect.DeepEqual(ids, []string{"android/14", "java/8"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.toml")
	writeFile(t, path, `
[[artifact]]
kind = "java"
version = "11"
index = "a.scip"

[[artifact]]
kind = "oldjava"
version = "11"
index = "b.scip"
`)
	_, err := Load(path)
	if !errors.IsCode(err, errors.DuplicateArtifact) {
		t.Fatalf("err = %v, want DuplicateArtifact", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
	}{
		{"missing kind", Artifact{Version: "1", Index: "x"}},
		{"unknown kind", Artifact{Kind: "gradle", Version: "1", Index: "x"}},
		{"maven without coordinates", Artifact{Kind: KindMaven, Version: "1", Index: "x"}},
		{"no version", Artifact{Kind: KindJava, Index: "x"}},
		{"no index", Artifact{Kind: KindJava, Version: "17"}},
		{"self dependency", Artifact{Kind: KindJava, Version: "17", Index: "x", Dependencies: []string{"java/17"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Batch{Artifacts: []Artifact{tt.artifact}}
			if err := b.Validate(); !errors.IsCode(err, errors.InvalidConfig) {
				t.Errorf("err = %v, want InvalidConfig", err)
			}
		})
	}
}

func TestMetadataFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", MetadataFile), `
description = "Core libraries"
license = "GPL-2.0-with-classpath-exception"
tags = ["jdk"]
`)
	path := filepath.Join(dir, "artifacts.toml")
	writeFile(t, path, `
[[artifact]]
kind = "java"
version = "17"
index = "jdk.scip"
source_root = "src"

[artifact.metadata]
description = "OpenJDK 17"
`)
	batch, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	md := batch.Artifacts[0].Metadata
	if md.Description != "OpenJDK 17" {
		t.Errorf("batch description overridden: %q", md.Description)
	}
	if md.License != "GPL-2.0-with-classpath-exception" || !reflect.DeepEqual(md.Tags, []string{"jdk"}) {
		t.Errorf("metadata not merged: %+v", md)
	}
}
