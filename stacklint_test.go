// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package stacklint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadStack(t *testing.T, path string, opts Options) *Stack {
	t.Helper()

	s, err := Load(path, opts)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing path", filepath.Join("testdata", "nope")},
		{"no configuration files", t.TempDir()},
		{"unparsable file", filepath.Join("testdata", "broken")},
		{"single file of wrong kind", filepath.Join("testdata", "naming.yaml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, Options{})
			require.Error(t, err)
			var le *LoadError
			assert.ErrorAs(t, err, &le)
		})
	}
}

func TestLoadSingleFile(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "interpolated", "main.tf"), Options{})
	require.Len(t, s.Resources(), 1)
	assert.Equal(t, "azurerm_virtual_network", s.Resources()[0].Type)
}

func TestLoadStack(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	resources := s.Resources()
	require.Len(t, resources, 11)

	// Insertion order: sorted file order, declaration order within a file.
	assert.Equal(t, "node3", resources[0].Name)
	assert.Equal(t, "compute.tf", resources[0].File)
	assert.Equal(t, "failover", resources[7].Name)
	assert.Equal(t, "disaster_recovery.tf", resources[7].File)
	assert.Equal(t, "main", resources[8].Name)
	assert.Equal(t, "network.tf", resources[8].File)

	// A count of zero materializes nothing.
	for _, r := range resources {
		assert.NotEqual(t, "zero", r.Name)
	}
}

func TestLoadCountExpansion(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "counted"), Options{})

	resources := s.Resources()
	require.Len(t, resources, 4)

	for i, r := range resources {
		assert.True(t, r.HasIndex)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "nodes", r.Name)
	}

	assert.Equal(t, "nodes.0", resources[0].ID())
	assert.Equal(t, "nodes.3", resources[3].ID())

	// Each copy resolves count.index independently.
	want := []string{"node1234-app01", "node1234-app02", "node1234-app03", "node1234-app04"}
	for i, r := range resources {
		names := r.Values("tags.Name")
		require.Len(t, names, 1)
		assert.Equal(t, want[i], names[0].String())
		assert.Equal(t, want[i], r.Attrs["name"])
	}
}

func TestLoadUnresolvableCount(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "badcount"), Options{})

	// An unresolvable count degrades to a single unindexed copy plus a
	// warning instead of failing the whole load.
	resources := s.Resources()
	require.Len(t, resources, 1)
	assert.False(t, resources[0].HasIndex)
	assert.Equal(t, "mystery", resources[0].ID())

	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "${var.mystery_count}", warnings[0].Token)
}

func TestLoadInterpolation(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "interpolated"), Options{})

	require.Len(t, s.Resources(), 1)
	assert.Equal(t, "test_interpolated_value", s.Resources()[0].Attrs["name"])
}

func TestLoadWarnings(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "network.tf", warnings[0].File)
	assert.Equal(t, "${var.missing}", warnings[0].Token)
	assert.Contains(t, warnings[0].String(), "${var.missing}")

	// The literal token stays put in the resolved value.
	unresolved := s.ResourcesInFile("network.tf")[2]
	assert.Equal(t, "prefix-${var.missing}", unresolved.Attrs["name"])
}

func TestLoadVariableOverrides(t *testing.T) {
	dir := filepath.Join("testdata", "stack")

	s := loadStack(t, dir, Options{})
	v, ok := s.Variable("override_value")
	require.True(t, ok)
	assert.Equal(t, "default_value", v)

	s = loadStack(t, dir, Options{VarFile: filepath.Join(dir, "global.tfvars")})
	v, ok = s.Variable("override_value")
	require.True(t, ok)
	assert.Equal(t, "from_override", v)

	s = loadStack(t, dir, Options{
		VarFile:   filepath.Join(dir, "global.tfvars"),
		Overrides: map[string]interface{}{"override_value": "programmatic"},
	})
	v, ok = s.Variable("override_value")
	require.True(t, ok)
	assert.Equal(t, "programmatic", v)

	_, err := Load(dir, Options{VarFile: filepath.Join("testdata", "naming.yaml")})
	require.Error(t, err)
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoadRepeatedBlocks(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	node3 := s.ResourcesInFile("compute.tf")[0]
	tags, ok := node3.Attrs["tags"].([]interface{})
	require.True(t, ok, "repeated tags blocks must stay an ordered list")
	require.Len(t, tags, 2)

	// Interpolation still reaches inside the repeated blocks.
	values := node3.Values("tags.environment")
	require.Len(t, values, 1)
	assert.Equal(t, "test", values[0].String())

	// A block declared once unwraps to a plain mapping.
	skipme := s.ResourcesInFile("compute.tf")[5]
	require.Equal(t, "skipme", skipme.Name)
	_, ok = skipme.Attrs["tags"].(map[string]interface{})
	assert.True(t, ok)
}

func TestResourcesOfType(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	vms, err := s.ResourcesOfType("azurerm_virtual_machine")
	require.NoError(t, err)
	assert.Len(t, vms, 6)

	all, err := s.ResourcesOfType("azurerm_.*")
	require.NoError(t, err)
	assert.Len(t, all, 9)

	// Type matching is a full match, not a prefix match.
	none, err := s.ResourcesOfType("azurerm_virtual")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.ResourcesOfType("[unbalanced")
	assert.Error(t, err)
}

func TestResourcesInFile(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	network := s.ResourcesInFile("network.tf")
	require.Len(t, network, 3)
	assert.Equal(t, "main", network[0].Name)
	assert.Equal(t, "skiptest", network[1].Name)
	assert.Equal(t, "unresolved", network[2].Name)

	assert.Empty(t, s.ResourcesInFile("other.tf"))
}

func TestFilter(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	envTest, err := s.Filter("tags.environment", "test")
	require.NoError(t, err)
	require.Len(t, envTest, 2)
	assert.Equal(t, "node3", envTest[0].Name)
	assert.Equal(t, "main", envTest[1].Name)

	nodes, err := s.Filter("name", "^node1234")
	require.NoError(t, err)
	assert.Len(t, nodes, 4)

	// skip-testing takes a resource out of every filter result.
	skipped, err := s.Filter("name", "subnet-b")
	require.NoError(t, err)
	assert.Empty(t, skipped)

	_, err = s.Filter("name", "[unbalanced")
	assert.Error(t, err)
}

func TestLengthAndValueInterpolation(t *testing.T) {
	s := loadStack(t, filepath.Join("testdata", "stack"), Options{})

	main := s.ResourcesInFile("network.tf")[0]
	assert.Equal(t, "test_interpolated_value", main.Attrs["name"])
	assert.Equal(t, "3", main.Attrs["zone_count"])
}

func TestLoadIsDeterministic(t *testing.T) {
	dir := filepath.Join("testdata", "stack")

	first := loadStack(t, dir, Options{})
	second := loadStack(t, dir, Options{})

	require.Len(t, second.Resources(), len(first.Resources()))
	for i, r := range first.Resources() {
		other := second.Resources()[i]
		assert.Equal(t, r.ID(), other.ID())
		assert.Equal(t, r.AttrsJSON(), other.AttrsJSON())
	}
	assert.Equal(t, first.Warnings(), second.Warnings())
}

func TestValidationIsDeterministic(t *testing.T) {
	dir := filepath.Join("testdata", "stack")
	rs, err := LoadRuleSet(filepath.Join("testdata", "naming.yaml"))
	require.NoError(t, err)
	pos, err := LoadPositioning(filepath.Join("testdata", "positioning.yaml"))
	require.NoError(t, err)

	first := loadStack(t, dir, Options{})
	second := loadStack(t, dir, Options{})

	// Two independent loads validate to identical ordered error lists.
	assert.Equal(t, first.ValidateNaming(rs), second.ValidateNaming(rs))
	assert.Equal(t, first.ValidatePositioning(pos), second.ValidatePositioning(pos))

	// Validating the same stack twice is idempotent too.
	assert.Equal(t, first.ValidateNaming(rs), first.ValidateNaming(rs))
	assert.Equal(t, first.ValidatePositioning(pos), first.ValidatePositioning(pos))
}
