// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"os"
	"strings"

	"github.com/stacklint/stacklint/internal/log"
)

// ValidatePositioning checks that every resource lives in a file whose
// positioning contract permits its type. Files with no matching suffix entry
// are unchecked, exempt file names are skipped entirely, and the
// STACKLINT_SKIP_POSITIONING environment variable disables the check
// globally. Violations are collected in file-then-declaration order.
func (s *Stack) ValidatePositioning(pos *Positioning) []PositioningError {
	if pos == nil {
		log.Infof("skipping resource positioning: no positioning document provided")
		return nil
	}
	if truthy(os.Getenv("STACKLINT_SKIP_POSITIONING")) {
		log.Infof("skipping resource positioning due to global environment setting")
		return nil
	}

	var errs []PositioningError
	for _, file := range s.fileOrder {
		if pos.exempt(file) {
			log.Debugf("file %s is exempt from positioning", file)
			continue
		}

		entry := pos.entryFor(file)
		if entry == nil {
			log.Debugf("no positioning contract declared for %s", file)
			continue
		}

		for _, r := range s.byFile[file] {
			if r.SkipPositioning() {
				log.Warnf("skipping resource %s positioning checking due to user overriding tag", r.Name)
				continue
			}
			if typePermitted(r.Type, entry.Prefixes) {
				continue
			}
			errs = append(errs, PositioningError{
				File:         file,
				ResourceType: r.Type,
				ResourceName: r.ID(),
				Allowed:      entry.Prefixes,
			})
		}
	}

	return errs
}

func typePermitted(resourceType string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(resourceType, p) {
			return true
		}
	}
	return false
}
