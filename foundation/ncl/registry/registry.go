// File: registry.go
// Title: Feature-Marker Registry
// Description: Thread-safe, ordered set of feature-marker rules compiled
//              from configuration or code.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package registry

import (
	"regexp"
	"strings"
	"sync"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	"github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/utils/stringx"
)

const (
	groupFeature = "feature"
	groupName    = "name"
)

// MarkerRule is one compiled feature-marker pattern
type MarkerRule struct {
	Name    string
	Pattern *regexp.Regexp

	featureIdx int
	nameIdx    int // -1 when the pattern has no name group
}

// MarkerSpec is the uncompiled form of a rule, as found in configuration
type MarkerSpec struct {
	Name    string `toml:"name" yaml:"name" json:"name"`
	Pattern string `toml:"pattern" yaml:"pattern" json:"pattern"`
}

// Options configures a Registry
type Options struct {
	Logger  *log.Logger
	Markers []MarkerSpec
}

// Registry is an ordered list of marker rules
type Registry struct {
	rules  []*MarkerRule
	names  map[string]struct{}
	logger *log.Logger
	mutex  sync.RWMutex
}

// New creates a registry and registers opts.Markers in order
func New(opts Options) (*Registry, error) {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}

	r := &Registry{
		names:  make(map[string]struct{}),
		logger: opts.Logger.WithField("component", "ncl-registry"),
	}

	for _, m := range opts.Markers {
		if err := r.RegisterMarker(m.Name, m.Pattern); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("NCL registry initialized", log.Fields{
		"markerCount": len(r.rules),
	})

	return r, nil
}

// RegisterMarker compiles pattern and appends it as rule name
func (r *Registry) RegisterMarker(name, pattern string) error {
	if stringx.IsBlank(name) {
		return invalidMarker("marker name cannot be empty", name, pattern)
	}
	name = strings.TrimSpace(name)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return mdwerror.Wrap(err, "invalid marker pattern").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("registry.RegisterMarker").
			WithDetail("name", name)
	}

	rule := &MarkerRule{
		Name:       name,
		Pattern:    re,
		featureIdx: re.SubexpIndex(groupFeature),
		nameIdx:    re.SubexpIndex(groupName),
	}
	if rule.featureIdx < 0 {
		return invalidMarker("marker pattern needs a named group \"feature\"", name, pattern)
	}
	if re.MatchString("") {
		return invalidMarker("marker pattern must not match an empty line", name, pattern)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.names[name]; exists {
		return invalidMarker("marker "+name+" already registered", name, pattern)
	}
	r.names[name] = struct{}{}
	r.rules = append(r.rules, rule)

	r.logger.Debug("Marker rule registered", log.Fields{
		"name":    name,
		"pattern": pattern,
	})

	return nil
}

// Match tries every rule in order against text. feature is the trimmed
// "feature" group, name the trimmed "name" group or empty.
func (r *Registry) Match(text string) (feature, name, rule string, ok bool) {
	if r == nil {
		return "", "", "", false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, mr := range r.rules {
		m := mr.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		feature = strings.TrimSpace(m[mr.featureIdx])
		if mr.nameIdx >= 0 {
			name = strings.TrimSpace(m[mr.nameIdx])
		}
		return feature, name, mr.Name, true
	}
	return "", "", "", false
}

// Rules returns the rule names in registration order
func (r *Registry) Rules() []string {
	if r == nil {
		return nil
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.rules))
	for _, mr := range r.rules {
		names = append(names, mr.Name)
	}
	return names
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.rules)
}

func invalidMarker(msg, name, pattern string) error {
	return mdwerror.New(msg).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("registry.RegisterMarker").
		WithDetail("name", name).
		WithDetail("pattern", pattern)
}
