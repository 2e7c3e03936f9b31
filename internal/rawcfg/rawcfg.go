// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rawcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"

	"github.com/stacklint/stacklint/internal/log"
)

// RawBlock is a single resource declaration exactly as parsed: attribute
// values still carry their literal ${...} spans and repeated nested blocks
// decode as []map[string]interface{} in declaration order.
type RawBlock struct {
	Type  string
	Label string
	File  string
	// Count is the raw count expression ("4", "${var.n}", ...). Empty when
	// the block declares no count.
	Count string
	Attrs map[string]interface{}
}

// RawVariable is a single variable declaration.
type RawVariable struct {
	Name       string
	Default    interface{}
	HasDefault bool
}

// RawFile is the parsed content of one configuration file.
type RawFile struct {
	Path      string
	Name      string
	Blocks    []RawBlock
	Variables []RawVariable
}

// ParseFile reads and parses one configuration file. Blocks and variables are
// returned in declaration order. A syntax error is structural and fatal to
// the caller's load.
func ParseFile(path string) (*RawFile, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	root, err := hcl.Parse(string(d))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("parsing %s: file does not contain a root object", path)
	}

	result := &RawFile{
		Path: path,
		Name: filepath.Base(path),
	}

	if res := list.Filter("resource"); len(res.Items) > 0 {
		result.Blocks, err = loadResources(result.Name, res)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if vs := list.Filter("variable"); len(vs.Items) > 0 {
		result.Variables, err = loadVariables(vs)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	log.Debugf("parsed %s: %d resources, %d variables",
		result.Name, len(result.Blocks), len(result.Variables))
	return result, nil
}

// ParseVarsFile reads a flat variable-override document. Top-level map
// assignments are flattened from the single-element block-list shape the
// decoder produces.
func ParseVarsFile(path string) (map[string]interface{}, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out map[string]interface{}
	if err := hcl.Decode(&out, string(d)); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for k, v := range out {
		out[k] = flattenObjectList(v)
	}
	return out, nil
}

func loadResources(filename string, list *ast.ObjectList) ([]RawBlock, error) {
	list = list.Children()

	var result []RawBlock
	for _, item := range list.Items {
		if len(item.Keys) != 2 {
			return nil, fmt.Errorf(
				"position %s: resource must be followed by exactly two strings, a type and a name",
				item.Pos())
		}

		t := item.Keys[0].Token.Value().(string)
		k := item.Keys[1].Token.Value().(string)

		var listVal *ast.ObjectList
		if ot, ok := item.Val.(*ast.ObjectType); ok {
			listVal = ot.List
		} else {
			return nil, fmt.Errorf("resource %s[%s]: should be an object", t, k)
		}

		var attrs map[string]interface{}
		if err := hcl.DecodeObject(&attrs, item.Val); err != nil {
			return nil, fmt.Errorf("reading config for %s[%s]: %w", t, k, err)
		}

		// Count is pulled out of the attribute tree; the normalizer owns its
		// resolution and the produced resources must not carry it.
		var count string
		if o := listVal.Filter("count"); len(o.Items) > 0 {
			if err := hcl.DecodeObject(&count, o.Items[0].Val); err != nil {
				return nil, fmt.Errorf("parsing count for %s[%s]: %w", t, k, err)
			}
		}
		delete(attrs, "count")

		result = append(result, RawBlock{
			Type:  t,
			Label: k,
			File:  filename,
			Count: count,
			Attrs: attrs,
		})
	}

	return result, nil
}

func loadVariables(list *ast.ObjectList) ([]RawVariable, error) {
	list = list.Children()

	var result []RawVariable
	for _, item := range list.Items {
		if len(item.Keys) != 1 {
			return nil, fmt.Errorf(
				"position %s: variable must be followed by exactly one string, a name",
				item.Pos())
		}

		n := item.Keys[0].Token.Value().(string)

		var body map[string]interface{}
		if err := hcl.DecodeObject(&body, item.Val); err != nil {
			return nil, fmt.Errorf("reading variable %s: %w", n, err)
		}

		def, has := body["default"]
		result = append(result, RawVariable{
			Name:       n,
			Default:    flattenObjectList(def),
			HasDefault: has,
		})
	}

	return result, nil
}

// flattenObjectList collapses the []map[string]interface{} shape the decoder
// produces for a map assignment into a single merged map. Lists and scalars
// pass through unchanged.
func flattenObjectList(v interface{}) interface{} {
	ms, ok := v.([]map[string]interface{})
	if !ok {
		return v
	}
	def := make(map[string]interface{})
	for _, m := range ms {
		for k, mv := range m {
			def[k] = mv
		}
	}
	return def
}
