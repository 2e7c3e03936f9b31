// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRe = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// DrillAll navigates JSON using a flexible dot path supporting arrays,
// fanning out across array elements: a segment landing on an array without an
// explicit index applies the rest of the path to every element. The result is
// every value reachable at the path; an empty slice means the path is absent.
// Repeated configuration blocks decode as arrays of objects, so this is what
// gives attribute matching its any-element semantics.
func DrillAll(jsonData string, path string) []gjson.Result {
	current := []gjson.Result{gjson.Parse(jsonData)}

	for _, p := range strings.Split(path, ".") {
		matches := segmentRe.FindStringSubmatch(p)
		if len(matches) == 0 {
			return nil
		}

		key := matches[1]

		index := -1
		wildcard := matches[3] == "*"
		if matches[3] != "" && !wildcard {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return nil
			}
			index = i
		}

		var next []gjson.Result
		for _, cur := range current {
			if !cur.IsObject() {
				continue
			}
			val := cur.Get(key)
			if !val.Exists() {
				continue
			}
			if val.IsArray() {
				arr := val.Array()
				if index >= 0 {
					if index < len(arr) {
						next = append(next, arr[index])
					}
					continue
				}
				next = append(next, arr...)
				continue
			}
			if index >= 0 || wildcard {
				// Index into a non-array never resolves.
				continue
			}
			next = append(next, val)
		}

		current = next
		if len(current) == 0 {
			return nil
		}
	}

	return current
}
