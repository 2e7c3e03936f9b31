// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stacklint/stacklint/internal/interp"
	"github.com/stacklint/stacklint/internal/log"
	"github.com/stacklint/stacklint/internal/rawcfg"
	"github.com/stacklint/stacklint/internal/vars"
)

// normalizer turns raw parsed blocks into canonical Resources: count
// expansion, interpolation of every scalar leaf, and shape normalization of
// repeated blocks. Unresolved spans are accumulated as warnings.
type normalizer struct {
	resolver *interp.Resolver
	warnings []Warning
}

func newNormalizer(store *vars.Store) *normalizer {
	return &normalizer{resolver: interp.NewResolver(store)}
}

// normalize produces the Resources for one raw block. A count of N yields N
// indexed copies, a count of 0 yields none, and a count that cannot be
// resolved to a non-negative integer degrades to a single unindexed copy so
// the run stays total.
func (n *normalizer) normalize(b rawcfg.RawBlock) []*Resource {
	if b.Count == "" {
		return []*Resource{n.build(b, interp.Context{})}
	}

	count, ok := n.resolveCount(b)
	if !ok {
		return []*Resource{n.build(b, interp.Context{})}
	}
	if count == 0 {
		log.Debugf("resource %s.%s has count 0, no resources produced", b.Type, b.Label)
		return nil
	}

	resources := make([]*Resource, 0, count)
	for i := 0; i < count; i++ {
		resources = append(resources, n.build(b, interp.Context{HasIndex: true, Index: i}))
	}
	return resources
}

func (n *normalizer) resolveCount(b rawcfg.RawBlock) (int, bool) {
	resolved, unres := n.resolver.Resolve(b.Count, interp.Context{})
	if len(unres) > 0 {
		n.record(b, unres)
		return 0, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(resolved))
	if err != nil || count < 0 {
		n.warnings = append(n.warnings, Warning{
			File:         b.File,
			ResourceType: b.Type,
			ResourceName: b.Label,
			Token:        b.Count,
			Reason:       "count did not resolve to a non-negative integer",
		})
		return 0, false
	}
	return count, true
}

func (n *normalizer) build(b rawcfg.RawBlock, ctx interp.Context) *Resource {
	r := &Resource{
		Type:     b.Type,
		Name:     b.Label,
		File:     b.File,
		Index:    ctx.Index,
		HasIndex: ctx.HasIndex,
		original: normalizeShape(b.Attrs),
	}
	r.Attrs = n.walkMap(b.Attrs, ctx, b)

	// Both JSON views are rendered here so queries never mutate the
	// resource and are safe to run concurrently.
	r.attrsJSON = marshalAttrs(r.Attrs)
	r.originalJSON = marshalAttrs(r.original)
	return r
}

// walkMap resolves every scalar leaf of an attribute mapping. Keys are
// visited in sorted order so recorded warnings are deterministic.
func (n *normalizer) walkMap(m map[string]interface{}, ctx interp.Context, b rawcfg.RawBlock) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for _, k := range sortedKeys(m) {
		out[k] = n.walkValue(m[k], ctx, b)
	}
	return out
}

func (n *normalizer) walkValue(v interface{}, ctx interp.Context, b rawcfg.RawBlock) interface{} {
	switch val := v.(type) {
	case string:
		resolved, unres := n.resolver.Resolve(val, ctx)
		n.record(b, unres)
		return resolved
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = n.walkValue(elem, ctx, b)
		}
		return out
	case map[string]interface{}:
		return n.walkMap(val, ctx, b)
	case []map[string]interface{}:
		// A nested block declared once is a single mapping; a repeated
		// sibling key stays an ordered list so callers can tell the two
		// shapes apart.
		if len(val) == 1 {
			return n.walkMap(val[0], ctx, b)
		}
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = n.walkMap(elem, ctx, b)
		}
		return out
	}
	return v
}

func (n *normalizer) record(b rawcfg.RawBlock, unres []interp.Unresolved) {
	for _, u := range unres {
		n.warnings = append(n.warnings, Warning{
			File:         b.File,
			ResourceType: b.Type,
			ResourceName: b.Label,
			Token:        u.Token,
			Reason:       u.Reason,
		})
	}
}

// normalizeShape applies the same single-block unwrapping as the resolved
// walk without touching scalar values. It backs the pre-interpolation view
// reported alongside naming mismatches.
func normalizeShape(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeShapeValue(v)
	}
	return out
}

func normalizeShapeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = normalizeShapeValue(elem)
		}
		return out
	case map[string]interface{}:
		return normalizeShape(val)
	case []map[string]interface{}:
		if len(val) == 1 {
			return normalizeShape(val[0])
		}
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = normalizeShape(elem)
		}
		return out
	}
	return v
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
