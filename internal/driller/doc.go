// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller traverses JSON renderings of resource attribute trees to
// extract the values that rule matching and filtering operate on.
package driller
