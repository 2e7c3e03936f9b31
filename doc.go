// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stacklint loads Terraform-style configuration directories into a
// canonical resource model and validates the resources against
// organization-defined naming and file-positioning conventions. The same
// model backs conditional test filtering: callers select resources by
// attribute path and value regex to decide which checks to run.
//
// A load resolves variable interpolation, expands count blocks and keeps
// repeated sibling blocks as ordered lists. Expressions that cannot be
// resolved are kept verbatim and surfaced as warnings rather than failing
// the run.
package stacklint
