// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package rawcfg parses configuration files into raw, loosely-typed block
// trees. Parsing is deliberately language-faithful rather than evaluated:
// interpolation expressions survive as literal strings for the resolver to
// consume, and repeated sibling blocks come back as ordered lists instead of
// overwriting each other.
package rawcfg
