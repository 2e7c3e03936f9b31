// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stacklint/stacklint/internal/rawcfg"
)

func TestStoreResolve(t *testing.T) {
	store := NewStore([]rawcfg.RawVariable{
		{Name: "region", Default: "westeurope", HasDefault: true},
		{Name: "zones", Default: []interface{}{"a", "b"}, HasDefault: true},
		{Name: "unset"},
	})

	v, ok := store.Resolve("region")
	assert.True(t, ok)
	assert.Equal(t, "westeurope", v)

	v, ok = store.Resolve("zones")
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, v)

	_, ok = store.Resolve("unset")
	assert.False(t, ok, "declared without default should not resolve")

	_, ok = store.Resolve("never_declared")
	assert.False(t, ok)
}

func TestStoreOverride(t *testing.T) {
	store := NewStore([]rawcfg.RawVariable{
		{Name: "region", Default: "westeurope", HasDefault: true},
		{Name: "unset"},
	})
	store.Override(map[string]interface{}{
		"region": "northeurope",
		"extra":  "added",
		"unset":  "now-set",
	})

	v, ok := store.Resolve("region")
	assert.True(t, ok)
	assert.Equal(t, "northeurope", v, "override should win over the default")

	v, ok = store.Resolve("extra")
	assert.True(t, ok)
	assert.Equal(t, "added", v)

	v, ok = store.Resolve("unset")
	assert.True(t, ok)
	assert.Equal(t, "now-set", v)

	assert.Equal(t, 3, store.Len())
}
