// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package projectctx builds the project context sent alongside a source file.
//
// Everything here is a pure function of text and already-inspected project
// information: no filesystem or network access. Import extraction and
// naming-convention detection are regex heuristics, not parsers.
package projectctx

import (
	"strings"

	"github.com/testorix/testgen/cmd/testgen/internal/project"
	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

// MaxDependencies caps the dependency list sent to the API.
const MaxDependencies = 20

// NamingConvention is the dominant identifier style detected in a file.
type NamingConvention string

const (
	CamelCase  NamingConvention = "camelCase"
	SnakeCase  NamingConvention = "snake_case"
	PascalCase NamingConvention = "PascalCase"
)

// ProjectContext is the project_context payload of a generate-test request.
//
// FileImports is nil rather than empty when nothing was found; the field is
// then omitted from the request.
type ProjectContext struct {
	Framework        string           `json:"framework,omitempty"`
	TestFramework    string           `json:"test_framework,omitempty"`
	ProjectRoot      string           `json:"project_root"`
	TestDirectory    string           `json:"test_directory,omitempty"`
	Dependencies     []string         `json:"dependencies,omitempty"`
	FileImports      []string         `json:"file_imports,omitempty"`
	NamingConvention NamingConvention `json:"naming_convention,omitempty"`
}

// Build assembles the context for content written in lang.
//
// ProjectRoot is always info.ProjectRoot.
func Build(content string, lang source.Language, info project.ProjectInfo) ProjectContext {
	ctx := ProjectContext{
		ProjectRoot:      info.ProjectRoot,
		Framework:        info.Framework,
		TestFramework:    info.TestFramework,
		TestDirectory:    info.TestDirectory,
		Dependencies:     FilterDependencies(info.Dependencies),
		NamingConvention: DetectNamingConvention(content, lang),
	}
	if imports := ExtractImports(content, lang); len(imports) > 0 {
		ctx.FileImports = imports
	}
	return ctx
}

// FilterDependencies drops PHP runtime pseudo-packages and type-only
// packages, then keeps the first MaxDependencies entries in order.
//
// Returns nil for an empty result.
func FilterDependencies(deps []string) []string {
	var out []string
	for _, dep := range deps {
		if strings.HasPrefix(dep, "php") || strings.HasPrefix(dep, "@types/") {
			continue
		}
		out = append(out, dep)
		if len(out) == MaxDependencies {
			break
		}
	}
	return out
}
