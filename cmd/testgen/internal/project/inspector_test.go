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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

func TestInspect_PackageJSON(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{
		"name": "web",
		"scripts": {"test": "jest __tests__"},
		"dependencies": {"react": "^18.0.0", "next": "14.0.0", "axios": "1.0.0"},
		"devDependencies": {"jest": "^29", "@types/node": "20"}
	}`)

	info := Inspect(root, source.LanguageTS)

	assert.Equal(t, root, info.ProjectRoot)
	assert.True(t, info.HasPackageManifest)
	assert.False(t, info.HasComposerManifest)
	assert.Equal(t, []string{"react", "next", "axios"}, info.Dependencies)
	assert.Equal(t, []string{"jest", "@types/node"}, info.DevDependencies)
	assert.Equal(t, "next", info.Framework, "next outranks react")
	assert.Equal(t, "jest", info.TestFramework)
	assert.Equal(t, "__tests__", info.TestDirectory)
}

func TestInspect_FrameworkPriority(t *testing.T) {
	tests := []struct {
		deps string
		want string
	}{
		{`"react": "1", "express": "1"`, "express"},
		{`"vue": "1", "@nestjs/core": "1"`, "nestjs"},
		{`"svelte": "1", "@angular/core": "1"`, "angular"},
		{`"svelte": "1"`, "svelte"},
		{`"lodash": "1"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			root := t.TempDir()
			writeFixtureFile(t, root, "package.json", fmt.Sprintf(`{"dependencies": {%s}}`, tt.deps))

			assert.Equal(t, tt.want, Inspect(root, source.LanguageJS).Framework)
		})
	}
}

func TestInspect_TestFrameworkFromDevDependencies(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"devDependencies": {"cypress": "1", "@playwright/test": "1"}}`)

	info := Inspect(root, source.LanguageJS)

	assert.Equal(t, "playwright", info.TestFramework)
	assert.Equal(t, []string{}, info.Dependencies, "absent section is an empty list")
}

func TestInspect_TestDirectoryFromScript(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"jest src/__tests__", "__tests__"},
		{"mocha tests/**/*.js", "tests"},
		{"mocha test/", "test"},
		{"jasmine spec/", "spec"},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			root := t.TempDir()
			writeFixtureFile(t, root, "package.json", fmt.Sprintf(`{"scripts": {"test": %q}}`, tt.script))

			assert.Equal(t, tt.want, Inspect(root, source.LanguageJS).TestDirectory)
		})
	}
}

func TestInspect_TestDirectoryFromDisk(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"scripts": {"test": "vitest"}}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "spec"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "test"), 0755))

	assert.Equal(t, "test", Inspect(root, source.LanguageJS).TestDirectory)
}

func TestInspect_NoTestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"scripts": "not-an-object"}`)

	info := Inspect(root, source.LanguageJS)

	require.NotNil(t, info.Node)
	assert.Empty(t, info.TestDirectory)
}

func TestInspect_ComposerJSON(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "composer.json", `{
		"require": {"php": "^8.2", "laravel/framework": "^11.0", "guzzlehttp/guzzle": "^7"},
		"require-dev": {"phpunit/phpunit": "^10"}
	}`)

	info := Inspect(root, source.LanguagePHP)

	assert.True(t, info.HasComposerManifest)
	assert.Equal(t, []string{"php", "laravel/framework", "guzzlehttp/guzzle"}, info.Dependencies)
	assert.Equal(t, []string{"phpunit/phpunit"}, info.DevDependencies)
	assert.Equal(t, "laravel", info.Framework)
	assert.Equal(t, "phpunit", info.TestFramework)
	assert.Equal(t, "tests", info.TestDirectory)
}

func TestInspect_ComposerDefaultsToPHPUnit(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "composer.json", `{"require": []}`)

	info := Inspect(root, source.LanguagePHP)

	assert.Equal(t, "phpunit", info.TestFramework)
	assert.Equal(t, []string{}, info.Dependencies)
	assert.Empty(t, info.Framework)
}

func TestInspect_Pest(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "composer.json", `{"require": {"slim/slim": "4"}, "require-dev": {"pestphp/pest": "2", "phpunit/phpunit": "10"}}`)

	info := Inspect(root, source.LanguagePHP)

	assert.Equal(t, "pest", info.TestFramework)
	assert.Equal(t, "slim", info.Framework)
}

func TestInspect_MalformedManifestIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"dependencies": {`)

	info := Inspect(root, source.LanguageJS)

	assert.True(t, info.HasPackageManifest)
	assert.Nil(t, info.Node)
	assert.Empty(t, info.Framework)
	assert.Nil(t, info.Dependencies)
}

func TestInspect_NoManifests(t *testing.T) {
	info := Inspect(t.TempDir(), source.LanguageTS)

	assert.False(t, info.HasPackageManifest)
	assert.False(t, info.HasComposerManifest)
	assert.Empty(t, info.TestDirectory)
}

func TestInspect_MixedManifests(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"dependencies": {"vue": "3"}, "devDependencies": {"vitest": "1"}}`)
	writeFixtureFile(t, root, "composer.json", `{"require": {"symfony/symfony": "6"}}`)

	t.Run("php source prefers composer", func(t *testing.T) {
		info := Inspect(root, source.LanguagePHP)
		assert.Equal(t, "symfony", info.Framework)
		assert.Equal(t, "phpunit", info.TestFramework)
		assert.Equal(t, "tests", info.TestDirectory)
		assert.Equal(t, []string{"symfony/symfony"}, info.Dependencies)
	})

	t.Run("ts source prefers package.json", func(t *testing.T) {
		info := Inspect(root, source.LanguageTS)
		assert.Equal(t, "vue", info.Framework)
		assert.Equal(t, "vitest", info.TestFramework)
		assert.Equal(t, "tests", info.TestDirectory, "gap filled from composer.json")
		assert.Equal(t, []string{"vue"}, info.Dependencies)
	})

	t.Run("no language prefers composer", func(t *testing.T) {
		info := Inspect(root, "")
		assert.Equal(t, "symfony", info.Framework)
	})
}

func TestOrderedKeys_PreservesDocumentOrder(t *testing.T) {
	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, fmt.Sprintf("%q: {\"nested\": [1, 2]}", fmt.Sprintf("pkg-%02d", 29-i)))
	}
	root := t.TempDir()
	writeFixtureFile(t, root, "package.json", `{"dependencies": {`+strings.Join(names, ",")+`}}`)

	info := Inspect(root, source.LanguageJS)

	require.Len(t, info.Dependencies, 30)
	assert.Equal(t, "pkg-29", info.Dependencies[0])
	assert.Equal(t, "pkg-00", info.Dependencies[29])
}
