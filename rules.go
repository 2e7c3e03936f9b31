// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stacklint

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stacklint/stacklint/internal/log"
)

// Field is one attribute check inside a naming rule: a dot/bracket path into
// the resource's attribute tree and the regex its value must match.
type Field struct {
	Path    string
	Pattern string

	re *regexp.Regexp
}

// Rule is one naming rule: a resource-type regex selecting the resources it
// applies to, an optional regex for the declaration label, and the field
// checks. A rule with no fields passes on type alone.
type Rule struct {
	Resource string
	Label    string
	Fields   []Field

	typeRe  *regexp.Regexp
	labelRe *regexp.Regexp
}

// RuleSet is an ordered naming rule document.
type RuleSet struct {
	Source string
	Rules  []Rule
}

// ruleFor returns the first rule whose type regex fully matches, or nil.
func (rs *RuleSet) ruleFor(resourceType string) *Rule {
	for i := range rs.Rules {
		if rs.Rules[i].typeRe.MatchString(resourceType) {
			return &rs.Rules[i]
		}
	}
	return nil
}

type fieldDoc struct {
	Value *string `yaml:"value"`
	Regex *string `yaml:"regex"`
}

type ruleDoc struct {
	Resource *string    `yaml:"resource"`
	Regex    *string    `yaml:"regex"`
	Fields   []fieldDoc `yaml:"fields"`
}

// LoadRuleSet reads and validates a naming rule document. Any missing
// required key or uncompilable regex is a MalformedRuleError; nothing gets
// evaluated against a broken rule set.
func LoadRuleSet(path string) (*RuleSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedRuleError{Path: path, Reason: fmt.Sprintf("could not load: %v", err)}
	}

	var docs []ruleDoc
	if err := yaml.Unmarshal(b, &docs); err != nil {
		return nil, &MalformedRuleError{Path: path, Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}

	rs := &RuleSet{Source: path, Rules: make([]Rule, 0, len(docs))}
	for i, doc := range docs {
		if doc.Resource == nil || *doc.Resource == "" {
			return nil, &MalformedRuleError{
				Path:   path,
				Reason: fmt.Sprintf("rule %d is missing the resource key", i),
			}
		}

		rule := Rule{Resource: *doc.Resource}

		// Type selection is a full match.
		rule.typeRe, err = compileFullMatch(rule.Resource)
		if err != nil {
			return nil, &MalformedRuleError{
				Path:   path,
				Reason: fmt.Sprintf("rule %d has an invalid resource regex: %v", i, err),
			}
		}

		if doc.Regex != nil && *doc.Regex != "" {
			rule.Label = *doc.Regex
			rule.labelRe, err = compileAnchored(rule.Label)
			if err != nil {
				return nil, &MalformedRuleError{
					Path:   path,
					Reason: fmt.Sprintf("rule %d has an invalid regex: %v", i, err),
				}
			}
		}

		for j, fd := range doc.Fields {
			if fd.Value == nil || *fd.Value == "" {
				return nil, &MalformedRuleError{
					Path:   path,
					Reason: fmt.Sprintf("rule %d field %d is missing the value key", i, j),
				}
			}
			if fd.Regex == nil {
				return nil, &MalformedRuleError{
					Path:   path,
					Reason: fmt.Sprintf("rule %d field %d is missing the regex key", i, j),
				}
			}
			re, err := compileAnchored(*fd.Regex)
			if err != nil {
				return nil, &MalformedRuleError{
					Path:   path,
					Reason: fmt.Sprintf("rule %d field %d has an invalid regex: %v", i, j, err),
				}
			}
			rule.Fields = append(rule.Fields, Field{Path: *fd.Value, Pattern: *fd.Regex, re: re})
		}

		rs.Rules = append(rs.Rules, rule)
	}

	log.Debugf("loaded %d naming rules from %s", len(rs.Rules), path)
	return rs, nil
}

// compileAnchored compiles a value regex anchored at the start of the value.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}

// compileFullMatch compiles a regex that must cover the whole value.
func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

// DefaultPositioningExemption is exempt from positioning checks out of the
// box: disaster-recovery override files legitimately collect resources that
// belong elsewhere.
const DefaultPositioningExemption = "disaster_recovery.tf"

// PositioningEntry permits a set of resource-type prefixes in files whose
// name ends with Suffix.
type PositioningEntry struct {
	Suffix   string
	Prefixes []string
}

// Positioning is a file-positioning document: suffix entries in document
// order plus a list of exempt file names that skip positioning entirely.
type Positioning struct {
	Source  string
	Entries []PositioningEntry
	Exempt  []string
}

// entryFor returns the first entry whose suffix matches the file name, or
// nil when the file has no positioning contract.
func (p *Positioning) entryFor(filename string) *PositioningEntry {
	for i := range p.Entries {
		if strings.HasSuffix(filename, p.Entries[i].Suffix) {
			return &p.Entries[i]
		}
	}
	return nil
}

func (p *Positioning) exempt(filename string) bool {
	for _, name := range p.Exempt {
		if filename == name {
			return true
		}
	}
	return false
}

// LoadPositioning reads and validates a positioning document: a YAML mapping
// from file-name suffix to a list of permitted resource-type prefixes.
// Decoding goes through yaml.Node so the document's key order survives into
// suffix matching.
func LoadPositioning(path string) (*Positioning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedRuleError{Path: path, Reason: fmt.Sprintf("could not load: %v", err)}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, &MalformedRuleError{Path: path, Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}
	if len(root.Content) == 0 {
		return nil, &MalformedRuleError{Path: path, Reason: "document is empty"}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &MalformedRuleError{Path: path, Reason: "document is not a mapping"}
	}

	pos := &Positioning{Source: path, Exempt: []string{DefaultPositioningExemption}}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valNode := doc.Content[i], doc.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, &MalformedRuleError{Path: path, Reason: "mapping key is not a string"}
		}
		if valNode.Kind != yaml.SequenceNode {
			return nil, &MalformedRuleError{
				Path:   path,
				Reason: fmt.Sprintf("entry %q is not a list of type prefixes", keyNode.Value),
			}
		}

		entry := PositioningEntry{Suffix: keyNode.Value}
		for _, item := range valNode.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, &MalformedRuleError{
					Path:   path,
					Reason: fmt.Sprintf("entry %q contains a non-string prefix", keyNode.Value),
				}
			}
			entry.Prefixes = append(entry.Prefixes, item.Value)
		}
		pos.Entries = append(pos.Entries, entry)
	}

	log.Debugf("loaded %d positioning entries from %s", len(pos.Entries), path)
	return pos, nil
}
