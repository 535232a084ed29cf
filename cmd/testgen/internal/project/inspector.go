// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

// ManifestInfo is what a single manifest contributes to a ProjectInfo.
type ManifestInfo struct {
	Dependencies    []string
	DevDependencies []string
	Framework       string
	TestFramework   string
	TestDirectory   string
}

// ProjectInfo describes a project root as read from its manifests.
//
// The flat fields are the resolved view handed to the context builder; Node
// and Composer keep each manifest's own contribution (nil when the manifest
// is absent or could not be parsed).
type ProjectInfo struct {
	ProjectRoot         string
	HasPackageManifest  bool
	HasComposerManifest bool
	Framework           string
	TestFramework       string
	Dependencies        []string
	DevDependencies     []string
	TestDirectory       string

	Node     *ManifestInfo
	Composer *ManifestInfo
}

// Inspect reads package.json and composer.json under root.
//
// Both manifests are parsed independently. The one matching lang is
// authoritative for every field it sets and the other only fills what is
// left empty; with no language, composer.json is authoritative. A manifest
// that fails to parse is skipped and contributes nothing.
func Inspect(root string, lang source.Language) ProjectInfo {
	info := ProjectInfo{ProjectRoot: root}

	if data, err := os.ReadFile(filepath.Join(root, PackageManifest)); err == nil {
		info.HasPackageManifest = true
		if m, err := parsePackageManifest(data, root); err == nil {
			info.Node = m
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, ComposerManifest)); err == nil {
		info.HasComposerManifest = true
		if m, err := parseComposerManifest(data); err == nil {
			info.Composer = m
		}
	}

	primary, secondary := info.Composer, info.Node
	if lang == source.LanguageJS || lang == source.LanguageTS {
		primary, secondary = info.Node, info.Composer
	}
	info.resolve(primary, secondary)
	return info
}

func (p *ProjectInfo) resolve(primary, secondary *ManifestInfo) {
	if primary == nil {
		primary, secondary = secondary, nil
	}
	if primary == nil {
		return
	}

	p.Dependencies = primary.Dependencies
	p.DevDependencies = primary.DevDependencies
	p.Framework = primary.Framework
	p.TestFramework = primary.TestFramework
	p.TestDirectory = primary.TestDirectory

	if secondary == nil {
		return
	}
	if p.Framework == "" {
		p.Framework = secondary.Framework
	}
	if p.TestFramework == "" {
		p.TestFramework = secondary.TestFramework
	}
	if p.TestDirectory == "" {
		p.TestDirectory = secondary.TestDirectory
	}
}

// =============================================================================
// package.json
// =============================================================================

type packageManifest struct {
	Dependencies    orderedKeys     `json:"dependencies"`
	DevDependencies orderedKeys     `json:"devDependencies"`
	Scripts         json.RawMessage `json:"scripts"`
}

func parsePackageManifest(data []byte, root string) (*ManifestInfo, error) {
	var pkg packageManifest
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PackageManifest, err)
	}

	m := &ManifestInfo{
		Dependencies:    pkg.Dependencies.list(),
		DevDependencies: pkg.DevDependencies.list(),
	}
	all := newDependencySet(m.Dependencies, m.DevDependencies)
	m.Framework = firstMatch(jsFrameworks, all)
	m.TestFramework = firstMatch(jsTestFrameworks, all)
	m.TestDirectory = detectTestDirectory(testScript(pkg.Scripts), root)
	return m, nil
}

// testScript returns scripts.test when it is a string.
func testScript(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var scripts map[string]any
	if err := json.Unmarshal(raw, &scripts); err != nil {
		return ""
	}
	s, _ := scripts["test"].(string)
	return s
}

// scriptHints map substrings of the test script to a test directory, in priority order.
var scriptHints = []struct {
	needle string
	dir    string
}{
	{"__tests__", "__tests__"},
	{"tests/", "tests"},
	{"test/", "test"},
	{"spec/", "spec"},
}

// candidateTestDirs are probed on disk, in priority order, when the script has no hint.
var candidateTestDirs = []string{"__tests__", "tests", "test", "spec"}

func detectTestDirectory(script, root string) string {
	for _, h := range scriptHints {
		if strings.Contains(script, h.needle) {
			return h.dir
		}
	}
	for _, dir := range candidateTestDirs {
		if _, err := os.Stat(filepath.Join(root, dir)); err == nil {
			return dir
		}
	}
	return ""
}

// =============================================================================
// composer.json
// =============================================================================

type composerManifest struct {
	Require    orderedKeys `json:"require"`
	RequireDev orderedKeys `json:"require-dev"`
}

// phpTestDirectory is where PHP projects keep their tests.
const phpTestDirectory = "tests"

func parseComposerManifest(data []byte) (*ManifestInfo, error) {
	var c composerManifest
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ComposerManifest, err)
	}

	m := &ManifestInfo{
		Dependencies:    c.Require.list(),
		DevDependencies: c.RequireDev.list(),
		TestDirectory:   phpTestDirectory,
	}
	all := newDependencySet(m.Dependencies, m.DevDependencies)
	m.Framework = firstMatch(phpFrameworks, all)
	m.TestFramework = firstMatch(phpTestFrameworks, all)
	return m, nil
}

// =============================================================================
// Ordered object keys
// =============================================================================

// orderedKeys decodes a JSON object into its keys in document order.
//
// Anything other than an object (composer allows an empty array) decodes to
// an empty list rather than an error.
type orderedKeys []string

func (k *orderedKeys) UnmarshalJSON(data []byte) error {
	*k = []string{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		*k = append(*k, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}
	return nil
}

func (k orderedKeys) list() []string {
	if k == nil {
		return []string{}
	}
	return []string(k)
}
