// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"github.com/stacklint/stacklint/internal/log"
)

// ValidateNaming checks every resource of the stack against the rule set and
// returns every violation found in one pass, in resource-then-field order.
// Resources tagged skip-linting are excluded regardless of what their rule
// would say; resources whose type matches no rule at all are reported as
// unrecognized.
func (s *Stack) ValidateNaming(rules *RuleSet) []NamingError {
	var errs []NamingError

	for _, r := range s.resources {
		if r.SkipLinting() {
			log.Warnf("skipping resource %s naming checking due to user overriding tag", r.Name)
			continue
		}

		rule := rules.ruleFor(r.Type)
		if rule == nil {
			log.Debugf("no naming rule matches type %s", r.Type)
			errs = append(errs, NamingError{
				Kind:         NamingUnrecognizedType,
				File:         r.File,
				ResourceType: r.Type,
				ResourceName: r.ID(),
			})
			continue
		}

		errs = append(errs, validateAgainstRule(r, rule)...)
	}

	return errs
}

func validateAgainstRule(r *Resource, rule *Rule) []NamingError {
	var errs []NamingError

	// The optional rule-level regex constrains the declaration label itself,
	// reported under the pseudo-field id.
	if rule.labelRe != nil && !rule.labelRe.MatchString(r.Name) {
		errs = append(errs, NamingError{
			Kind:         NamingMismatch,
			File:         r.File,
			ResourceType: r.Type,
			ResourceName: r.ID(),
			Field:        "id",
			Regex:        rule.Label,
			Value:        r.Name,
		})
	}

	for _, field := range rule.Fields {
		values := r.Values(field.Path)
		if len(values) == 0 {
			errs = append(errs, NamingError{
				Kind:         NamingMissingField,
				File:         r.File,
				ResourceType: r.Type,
				ResourceName: r.ID(),
				Field:        field.Path,
				Regex:        field.Pattern,
			})
			continue
		}

		matched := false
		for _, v := range values {
			if field.re.MatchString(v.String()) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		value := joinResults(values)
		original := joinResults(r.OriginalValues(field.Path))
		if original == value {
			original = ""
		}
		errs = append(errs, NamingError{
			Kind:          NamingMismatch,
			File:          r.File,
			ResourceType:  r.Type,
			ResourceName:  r.ID(),
			Field:         field.Path,
			Regex:         field.Pattern,
			Value:         value,
			OriginalValue: original,
		})
	}

	return errs
}
