// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package interp resolves ${...} interpolation spans inside scalar attribute
// values: variable references, count.index arithmetic, format() and
// length(). It is not an interpreter; anything outside that grammar is left
// in place as literal text and reported as unresolved.
package interp
