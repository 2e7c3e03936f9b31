// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/stacklint/stacklint/internal/driller"
	"github.com/stacklint/stacklint/internal/interp"
	"github.com/stacklint/stacklint/internal/log"
)

// Resource is one canonical, fully normalized instance of a configuration
// block after count expansion. Attribute values are fully resolved except
// for spans the resolver could not evaluate, which stay verbatim. A Resource
// is immutable once produced.
type Resource struct {
	// Type is the declared resource type, e.g. azurerm_virtual_machine.
	Type string
	// Name is the declaration label.
	Name string
	// File is the base name of the declaring configuration file.
	File string
	// Index is the zero-based count index. Only meaningful when HasIndex.
	Index    int
	HasIndex bool
	// Attrs is the resolved attribute tree: scalars, ordered lists, nested
	// mappings, and ordered lists of mappings where a sibling key repeated.
	Attrs map[string]interface{}

	original     map[string]interface{}
	attrsJSON    string
	originalJSON string
}

// ID is the resource identifier used in reports: the label, suffixed with
// the count index for materialized copies.
func (r *Resource) ID() string {
	if r.HasIndex {
		return fmt.Sprintf("%s.%d", r.Name, r.Index)
	}
	return r.Name
}

// AttrsJSON returns the JSON rendering of the resolved attribute tree that
// path queries drill into. Rendered once during normalization, so concurrent
// queries never write to the resource.
func (r *Resource) AttrsJSON() string {
	if r.attrsJSON != "" {
		return r.attrsJSON
	}
	return marshalAttrs(r.Attrs)
}

// Values resolves a dot/bracket attribute path against the resolved tree.
// Paths into lists fan out to every element; an empty result means the path
// is absent.
func (r *Resource) Values(path string) []gjson.Result {
	return driller.DrillAll(r.AttrsJSON(), path)
}

// OriginalValues is Values against the pre-interpolation tree.
func (r *Resource) OriginalValues(path string) []gjson.Result {
	if r.originalJSON != "" {
		return driller.DrillAll(r.originalJSON, path)
	}
	return driller.DrillAll(marshalAttrs(r.original), path)
}

// SkipLinting reports whether the resource opts out of naming validation via
// its tags.
func (r *Resource) SkipLinting() bool {
	return r.skipped("skip-linting", "skip_linting")
}

// SkipTesting reports whether the resource opts out of test-filtering
// queries via its tags.
func (r *Resource) SkipTesting() bool {
	return r.skipped("skip-testing", "skip_testing")
}

// SkipPositioning reports whether the resource opts out of positioning
// validation via its tags.
func (r *Resource) SkipPositioning() bool {
	return r.skipped("skip-positioning", "skip_positioning")
}

// skipped checks a resource-local opt-out tag. The dashed form is current;
// the underscored form still works but logs a deprecation warning.
func (r *Resource) skipped(tag, deprecated string) bool {
	tagsVal, ok := r.Attrs["tags"]
	if !ok {
		return false
	}
	tags, ok := tagsVal.(map[string]interface{})
	if !ok {
		// Multiple tags blocks leave a list here. That broken shape is
		// visible input for the validators, not an opt-out.
		log.Warnf("multiple tags entries found on resource %s", r.Name)
		return false
	}
	if v, ok := tags[deprecated]; ok && truthy(interp.Stringify(v)) {
		log.Warnf("the tag %q is deprecated, please use %q (resource %s)",
			deprecated, tag, r.Name)
		return true
	}
	v, ok := tags[tag]
	if !ok {
		return false
	}
	return truthy(interp.Stringify(v))
}

// truthy evaluates a skip-marker (or env switch) string value.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

func marshalAttrs(attrs map[string]interface{}) string {
	if attrs == nil {
		return "{}"
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		log.WithError(err).Errorf("marshaling attribute tree")
		return "{}"
	}
	return string(b)
}

// joinResults renders drilled values for reporting: a single value plain, a
// fan-out as a bracketed list.
func joinResults(results []gjson.Result) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) == 1 {
		return results[0].String()
	}
	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, res.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
