// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/stacklint/stacklint/internal/log"
	"github.com/stacklint/stacklint/internal/rawcfg"
	"github.com/stacklint/stacklint/internal/vars"
)

// Options configures a Load.
type Options struct {
	// VarFile is an optional variable-override document. Overrides win over
	// declared defaults.
	VarFile string
	// Overrides are programmatic variable overrides, applied after VarFile.
	Overrides map[string]interface{}
}

// Stack is the in-memory aggregate of every resource loaded from a
// configuration directory: an ordered sequence in file-then-declaration
// order plus a per-file index. It is built once per run and read-only
// afterwards; all queries preserve insertion order.
type Stack struct {
	Path string

	resources []*Resource
	fileOrder []string
	byFile    map[string][]*Resource
	store     *vars.Store
	warnings  []Warning
}

var logInit sync.Once

// Load parses every configuration file at path (a directory, or a single
// .tf file), builds the variable store, and normalizes every resource
// declaration. A missing path, an empty file set, or a structurally
// unparsable file returns a *LoadError and no Stack.
func Load(path string, opts Options) (*Stack, error) {
	logInit.Do(log.InitLogger)

	files, err := configFiles(path)
	if err != nil {
		return nil, err
	}

	parsed := make([]*rawcfg.RawFile, 0, len(files))
	var declared []rawcfg.RawVariable
	for _, f := range files {
		rf, err := rawcfg.ParseFile(f)
		if err != nil {
			return nil, &LoadError{Path: path, Reason: "unparsable configuration", Err: err}
		}
		parsed = append(parsed, rf)
		declared = append(declared, rf.Variables...)
	}

	store := vars.NewStore(declared)
	if opts.VarFile != "" {
		overrides, err := rawcfg.ParseVarsFile(opts.VarFile)
		if err != nil {
			return nil, &LoadError{Path: opts.VarFile, Reason: "unparsable variable overrides", Err: err}
		}
		store.Override(overrides)
	}
	if len(opts.Overrides) > 0 {
		store.Override(opts.Overrides)
	}
	log.Debugf("variable store holds %d values", store.Len())

	s := &Stack{
		Path:   path,
		byFile: make(map[string][]*Resource),
		store:  store,
	}

	norm := newNormalizer(store)
	for _, rf := range parsed {
		s.fileOrder = append(s.fileOrder, rf.Name)
		for _, block := range rf.Blocks {
			for _, r := range norm.normalize(block) {
				s.resources = append(s.resources, r)
				s.byFile[rf.Name] = append(s.byFile[rf.Name], r)
			}
		}
	}
	s.warnings = norm.warnings

	log.Infof("loaded %d resources from %d files", len(s.resources), len(parsed))
	return s, nil
}

// configFiles resolves the load target to a sorted list of configuration
// file paths.
func configFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "path does not exist", Err: err}
	}

	if !info.IsDir() {
		if !strings.HasSuffix(path, ".tf") {
			return nil, &LoadError{Path: path, Reason: "not a recognized configuration file"}
		}
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.tf"))
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "unreadable", Err: err}
	}
	if len(matches) == 0 {
		return nil, &LoadError{Path: path, Reason: "no recognized configuration files"}
	}
	sort.Strings(matches)
	return matches, nil
}

// Resources returns every resource in insertion order.
func (s *Stack) Resources() []*Resource {
	return s.resources
}

// ResourcesOfType returns the resources whose type fully matches the given
// regex, in insertion order.
func (s *Stack) ResourcesOfType(typePattern string) ([]*Resource, error) {
	re, err := compileFullMatch(typePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid type pattern %q: %w", typePattern, err)
	}

	var out []*Resource
	for _, r := range s.resources {
		if re.MatchString(r.Type) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ResourcesInFile returns the resources declared in the named file, in
// declaration order.
func (s *Stack) ResourcesInFile(name string) []*Resource {
	return s.byFile[name]
}

// Filter returns the resources whose resolved value at the given attribute
// path matches the regex, preserving insertion order. Lists match when any
// element matches. Resources tagged skip-testing are excluded; this is the
// query conditional test selection is built on.
func (s *Stack) Filter(attrPath, valueRegex string) ([]*Resource, error) {
	re, err := regexp.Compile(valueRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid filter regex %q: %w", valueRegex, err)
	}

	var out []*Resource
	for _, r := range s.resources {
		if r.SkipTesting() {
			log.Warnf("skipping resource %s testing due to user overriding tag", r.Name)
			continue
		}
		for _, v := range r.Values(attrPath) {
			if re.MatchString(v.String()) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

// Warnings returns the unresolved-interpolation warnings recorded during
// load, in normalization order.
func (s *Stack) Warnings() []Warning {
	return s.warnings
}

// Variable exposes a stored variable value for test callers. The second
// return is false when the variable is unknown or has no value.
func (s *Stack) Variable(name string) (interface{}, bool) {
	return s.store.Resolve(name)
}
