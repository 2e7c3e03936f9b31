// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const fixture = `{
	"name": "custsz001-app01",
	"os_profile": {"computer_name": "node01", "admin_username": "ops"},
	"network_interface_ids": ["a", "b"],
	"tags": [
		{"environment": "test", "Name": "one"},
		{"costcenter": "1234"}
	],
	"storage_os_disk": [{"caching": "ReadWrite"}]
}`

func TestDrillAll(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "scalar", path: "name", want: []string{"custsz001-app01"}},
		{name: "nested scalar", path: "os_profile.computer_name", want: []string{"node01"}},
		{name: "single element block", path: "storage_os_disk.caching", want: []string{"ReadWrite"}},
		{name: "fan out over blocks", path: "tags.environment", want: []string{"test"}},
		{name: "fan out misses nothing", path: "tags.Name", want: []string{"one"}},
		{name: "list elements", path: "network_interface_ids", want: []string{"a", "b"}},
		{name: "explicit index", path: "tags[0].environment", want: []string{"test"}},
		{name: "wildcard", path: "tags[*].costcenter", want: []string{"1234"}},
		{name: "absent everywhere", path: "tags.region", want: nil},
		{name: "absent key", path: "nope", want: nil},
		{name: "index out of range", path: "tags[9].environment", want: nil},
		{name: "invalid segment", path: "os_profile..x", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := DrillAll(fixture, tt.path)
			var got []string
			for _, r := range results {
				got = append(got, r.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
