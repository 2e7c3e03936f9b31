// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package vars implements the variable store: declared defaults merged with
// external overrides, resolved by name with a not-found signal instead of an
// error so that a single unbound variable can never abort a run.
package vars
