// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"fmt"
	"strings"
)

// LoadError is fatal to a run: the target path is missing, unreadable, or a
// configuration file is structurally unparsable. No partial Stack is exposed
// behind it.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("loading %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MalformedRuleError is raised at rule-load time for a rule-set or
// positioning document missing required keys or containing an invalid
// regex. Evaluating against a broken rule set cannot produce meaningful
// results, so this fails fast before any resource is looked at.
type MalformedRuleError struct {
	Path   string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("rule document %s: %s", e.Path, e.Reason)
}

// Warning records one ${...} span that survived normalization unresolved.
// Warnings are collected, never raised; the literal token stays in the
// attribute value so a human can still see how a field failed to match.
type Warning struct {
	File         string
	ResourceType string
	ResourceName string
	Token        string
	Reason       string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: could not resolve %s on %s.%s: %s",
		w.File, w.Token, w.ResourceType, w.ResourceName, w.Reason)
}

// NamingErrorKind classifies a naming validation failure.
type NamingErrorKind int

const (
	// NamingMismatch is a field present whose value does not match the
	// rule's regex.
	NamingMismatch NamingErrorKind = iota
	// NamingMissingField is a field path entirely absent from the resource.
	NamingMissingField
	// NamingUnrecognizedType is a resource whose type matches no rule at
	// all.
	NamingUnrecognizedType
)

// NamingError is one naming convention violation. These are expected
// validation outcomes, collected into an ordered list and returned, never
// thrown.
type NamingError struct {
	Kind          NamingErrorKind
	File          string
	ResourceType  string
	ResourceName  string
	Field         string
	Regex         string
	Value         string
	OriginalValue string
}

func (e NamingError) Error() string {
	switch e.Kind {
	case NamingUnrecognizedType:
		return fmt.Sprintf("no naming rule matches resource type %s (%s in %s)",
			e.ResourceType, e.ResourceName, e.File)
	case NamingMissingField:
		return fmt.Sprintf("naming convention not followed on file %s for resource %s: "+
			"required field %s is missing", e.File, e.ResourceName, e.Field)
	}
	msg := fmt.Sprintf("naming convention not followed on file %s for resource %s for field %s\n"+
		"\tRegex not matched : %s\n"+
		"\tValue             : %s", e.File, e.ResourceName, e.Field, e.Regex, e.Value)
	if e.OriginalValue != "" {
		msg += fmt.Sprintf("\n\tOriginal Value    : %s", e.OriginalValue)
	}
	return msg
}

// PositioningError is one file-positioning violation: a resource declared in
// a file whose positioning contract does not permit its type.
type PositioningError struct {
	File         string
	ResourceType string
	ResourceName string
	Allowed      []string
}

func (e PositioningError) Error() string {
	return fmt.Sprintf("filename positioning not followed on file %s for resource %s: "+
		"type %s is not among permitted prefixes [%s]",
		e.File, e.ResourceName, e.ResourceType, strings.Join(e.Allowed, ", "))
}
