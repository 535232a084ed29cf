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

// Detection tables. Order is significant: the first matching rule wins, so
// specific frameworks (next) precede the libraries they build on (react).

type dependencySet map[string]struct{}

func newDependencySet(lists ...[]string) dependencySet {
	set := dependencySet{}
	for _, list := range lists {
		for _, dep := range list {
			set[dep] = struct{}{}
		}
	}
	return set
}

func (s dependencySet) has(name string) bool {
	_, ok := s[name]
	return ok
}

type rule struct {
	match  func(dependencySet) bool
	result string
}

func dependsOn(pkg string) func(dependencySet) bool {
	return func(s dependencySet) bool { return s.has(pkg) }
}

func always(dependencySet) bool { return true }

func firstMatch(rules []rule, deps dependencySet) string {
	for _, r := range rules {
		if r.match(deps) {
			return r.result
		}
	}
	return ""
}

var jsFrameworks = []rule{
	{dependsOn("next"), "next"},
	{dependsOn("@nestjs/core"), "nestjs"},
	{dependsOn("express"), "express"},
	{dependsOn("react"), "react"},
	{dependsOn("vue"), "vue"},
	{dependsOn("@angular/core"), "angular"},
	{dependsOn("svelte"), "svelte"},
}

var jsTestFrameworks = []rule{
	{dependsOn("jest"), "jest"},
	{dependsOn("vitest"), "vitest"},
	{dependsOn("mocha"), "mocha"},
	{dependsOn("@playwright/test"), "playwright"},
	{dependsOn("cypress"), "cypress"},
}

var phpFrameworks = []rule{
	{dependsOn("laravel/framework"), "laravel"},
	{dependsOn("symfony/symfony"), "symfony"},
	{dependsOn("cakephp/cakephp"), "cakephp"},
	{dependsOn("slim/slim"), "slim"},
}

// phpunit is assumed for any PHP project without pest.
var phpTestFrameworks = []rule{
	{dependsOn("pestphp/pest"), "pest"},
	{always, "phpunit"},
}
