// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source classifies the file a test is being generated for.
//
// It answers three questions before anything touches the network: does the
// path name a readable regular file, is that file small enough to send, and
// which language tag should be reported for it. The language tag is derived
// from the extension alone.
package source

import (
	"path/filepath"
	"strings"
)

// Language is the closed set of language tags understood by the generation API.
type Language string

const (
	LanguagePHP Language = "php"
	LanguageJS  Language = "js"
	LanguageTS  Language = "ts"
)

// SupportedExtensions lists the extensions with a language mapping.
var SupportedExtensions = []string{".php", ".js", ".ts", ".jsx", ".tsx"}

// String returns the tag as sent on the wire.
func (l Language) String() string {
	return string(l)
}

// Display returns the upper-cased tag used in progress messages ("TS").
func (l Language) Display() string {
	return strings.ToUpper(string(l))
}

// IsPHP reports whether the language belongs to the PHP ecosystem.
func (l Language) IsPHP() bool {
	return l == LanguagePHP
}

// DetectLanguage maps a file extension to a language tag.
//
// Matching is case-insensitive. The second return value is false when the
// extension has no mapping; callers must stop before any network call in
// that case.
func DetectLanguage(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".php":
		return LanguagePHP, true
	case ".ts", ".tsx":
		return LanguageTS, true
	case ".js", ".jsx":
		return LanguageJS, true
	default:
		return "", false
	}
}

// IsSupportedExtension reports whether ext (with leading dot) is in SupportedExtensions.
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}

// TestFileName derives the generated test's file name from the source name.
//
// PHP appends "Test" before the extension (Foo.php -> FooTest.php); JS and
// TS insert ".test" (foo.ts -> foo.test.ts).
func TestFileName(path string, lang Language) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if lang.IsPHP() {
		return stem + "Test" + ext
	}
	return stem + ".test" + ext
}
