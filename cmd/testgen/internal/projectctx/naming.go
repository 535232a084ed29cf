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

	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

var (
	phpSnakeFunction = regexp.MustCompile(`\bfunction\s+\w+_\w+`)
	jsSnakeBinding   = regexp.MustCompile(`(?:const|let|var|function)\s+\w+_\w+`)
	jsPascalType     = regexp.MustCompile(`(?:class|function)\s+[A-Z]\w+`)
)

// DetectNamingConvention classifies the identifier style used in content.
//
// PHP is snake_case when any function name contains an underscore and
// camelCase otherwise. JS/TS checks snake_case bindings first, then
// capitalised class or function names, then defaults to camelCase.
func DetectNamingConvention(content string, lang source.Language) NamingConvention {
	if lang.IsPHP() {
		if phpSnakeFunction.MatchString(content) {
			return SnakeCase
		}
		return CamelCase
	}

	if jsSnakeBinding.MatchString(content) {
		return SnakeCase
	}
	if jsPascalType.MatchString(content) {
		return PascalCase
	}
	return CamelCase
}
