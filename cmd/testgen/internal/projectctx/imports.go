// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package projectctx

import (
	"regexp"
	"strings"

	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

var (
	// use App\Models\User;  use Foo\Bar as Baz;
	phpUsePattern = regexp.MustCompile(`use\s+([A-Za-z0-9\\_]+)(?:\s+as\s+\w+)?;`)

	// import X from 'm'; import { a, b } from "m"; import * as x from 'm'
	esImportPattern = regexp.MustCompile(`import\s+(?:[\w*\s{},]*)\s+from\s+['"]([^'"]+)['"]`)

	// require('m')
	requirePattern = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ExtractImports returns the distinct imported namespaces (PHP) or package
// identifiers (JS/TS) found in content, in first-seen order.
//
// Relative and absolute path specifiers are skipped. Scoped specifiers reduce
// to "@scope/name" and unscoped ones to their first segment. Returns nil when
// nothing is found.
func ExtractImports(content string, lang source.Language) []string {
	seen := newOrderedSet()

	if lang.IsPHP() {
		for _, m := range phpUsePattern.FindAllStringSubmatch(content, -1) {
			seen.add(m[1])
		}
		return seen.items()
	}

	for _, pattern := range []*regexp.Regexp{esImportPattern, requirePattern} {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			if pkg, ok := PackageName(m[1]); ok {
				seen.add(pkg)
			}
		}
	}
	return seen.items()
}

// PackageName reduces a module specifier to its package identifier.
//
// ok is false for filesystem specifiers (leading "." or "/").
func PackageName(specifier string) (string, bool) {
	if specifier == "" || strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return "", false
	}

	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 {
			return specifier, true
		}
		return parts[0] + "/" + parts[1], true
	}
	return parts[0], true
}

type orderedSet struct {
	index map[string]struct{}
	list  []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: map[string]struct{}{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.list = append(s.list, v)
}

func (s *orderedSet) items() []string {
	return s.list
}
