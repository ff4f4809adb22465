// Package registry enumerates the known HMS components and exposes the
// per-component metadata produced by the repository analysis pipeline.
//
// The component list is the union of a static catalog and dynamic
// discovery: any component with both an analysis summary and a last-commit
// marker in the analysis directory is considered known, whether or not it
// appears in the catalog.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// KnownComponents is the static catalog of HMS components tracked even
// before any analysis data exists for them.
var KnownComponents = []string{
	"HMS-A2A", // Agent-to-Agent
	"HMS-ABC", // Accountability Based Coverage
	"HMS-ACH", // Automated Clearing House
	"HMS-ACT", // Activity
	"HMS-AGT", // Agent
	"HMS-AGX", // Agent Extensions
	"HMS-API", // API
	"HMS-CDF", // Component Definition Framework
	"HMS-CUR", // Currency
	"HMS-DEV", // Development
	"HMS-DOC", // Documentation
	"HMS-DTA", // Data
	"HMS-EDU", // Education
	"HMS-EHR", // Electronic Health Records
	"HMS-EMR", // Electronic Medical Records
	"HMS-ESQ", // Enterprise Service Queue
	"HMS-ESR", // Enterprise Service Registry
	"HMS-ETL", // Extract Transform Load
	"HMS-FLD", // Field
	"HMS-GOV", // Government
	"HMS-LLM", // Large Language Model
	"HMS-MBL", // Mobile
	"HMS-MCP", // Model Context Protocol
	"HMS-MED", // Medical
	"HMS-MFE", // Micro Frontend
	"HMS-MKT", // Marketing
	"HMS-NFO", // Information
	"HMS-OMS", // Order Management System
	"HMS-OPS", // Operations
	"HMS-RED", // Reduction
	"HMS-SCM", // Supply Chain Management
	"HMS-SKL", // Skills
	"HMS-SME", // Subject Matter Expertise
	"HMS-SVC", // Service
	"HMS-SYS", // System
	"HMS-UHC", // Universal Health Coverage
	"HMS-UTL", // Utilities
}

// Registry resolves the known component set and per-component metadata.
type Registry struct {
	static      []string
	analysisDir string
}

// New creates a registry. analysisDir may be empty to disable discovery;
// extra components are appended to the static catalog.
func New(analysisDir string, extra ...string) *Registry {
	static := make([]string, 0, len(KnownComponents)+len(extra))
	static = append(static, KnownComponents...)
	static = append(static, extra...)
	return &Registry{
		static:      static,
		analysisDir: analysisDir,
	}
}

// Components returns the sorted, de-duplicated union of the static
// catalog and components discovered from analysis data. A missing
// analysis directory is not an error.
func (r *Registry) Components() []string {
	seen := make(map[string]struct{}, len(r.static))
	for _, c := range r.static {
		seen[c] = struct{}{}
	}
	for _, c := range r.discover() {
		seen[c] = struct{}{}
	}

	components := make([]string, 0, len(seen))
	for c := range seen {
		components = append(components, c)
	}
	sort.Strings(components)
	return components
}

// Filter returns the components matching a doublestar glob pattern, e.g.
// "HMS-A*". An empty pattern matches everything; a malformed pattern is
// an error.
func (r *Registry) Filter(pattern string) ([]string, error) {
	components := r.Components()
	if pattern == "" {
		return components, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid component pattern: %s", pattern)
	}

	matched := make([]string, 0, len(components))
	for _, c := range components {
		ok, err := doublestar.Match(pattern, c)
		if err != nil {
			return nil, fmt.Errorf("match pattern %s: %w", pattern, err)
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// discover scans the analysis directory for component summary/commit
// pairs.
func (r *Registry) discover() []string {
	if r.analysisDir == "" {
		return nil
	}

	entries, err := os.ReadDir(r.analysisDir)
	if err != nil {
		return nil
	}

	const summarySuffix = "_summary.json"
	var components []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, summarySuffix) {
			continue
		}
		component := strings.TrimSuffix(name, summarySuffix)

		// Only components with a matching commit marker count as
		// discovered.
		commitFile := filepath.Join(r.analysisDir, component+"_last_commit.txt")
		if _, err := os.Stat(commitFile); err != nil {
			continue
		}
		components = append(components, component)
	}
	return components
}
