package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// TechStack describes the technologies used by a component.
type TechStack struct {
	Languages    []string `json:"languages"`
	Frameworks   []string `json:"frameworks"`
	Databases    []string `json:"databases"`
	KeyLibraries []string `json:"key_libraries"`
}

// Architecture describes a component's code structure.
type Architecture struct {
	Pattern     string   `json:"pattern"`
	KeyDirs     []string `json:"key_dirs"`
	EntryPoints []string `json:"entry_points"`
}

// Metadata is the analysis-derived description of a component. Missing
// analysis data yields the zero-ish defaults below, never an error.
type Metadata struct {
	Component         string       `json:"component"`
	Description       string       `json:"description"`
	LastCommit        string       `json:"last_commit"`
	TechStack         TechStack    `json:"tech_stack"`
	IntegrationPoints []string     `json:"integration_points"`
	Architecture      Architecture `json:"architecture"`
}

// analysisSummary mirrors the relevant slice of the analysis pipeline's
// summary JSON. Unrecognized fields are ignored.
type analysisSummary struct {
	Body struct {
		Context struct {
			Description       string    `json:"description"`
			TechStack         TechStack `json:"tech_stack"`
			IntegrationPoints []string  `json:"integration_points"`
		} `json:"context"`
		Structure struct {
			ArchitecturePattern string   `json:"architecture_pattern"`
			DomainDirs          []string `json:"domain_dirs"`
			Entrypoints         []string `json:"entrypoints"`
		} `json:"structure"`
	} `json:"body"`
}

// Metadata loads the analysis data for a component. Absent or unreadable
// data produces defaults: "No description available", unknown pattern,
// empty lists.
func (r *Registry) Metadata(component string) Metadata {
	meta := Metadata{
		Component:   component,
		Description: "No description available",
		Architecture: Architecture{
			Pattern: "unknown",
		},
	}

	if r.analysisDir == "" {
		return meta
	}

	if data, err := os.ReadFile(filepath.Join(r.analysisDir, component+"_last_commit.txt")); err == nil {
		meta.LastCommit = strings.TrimSpace(string(data))
	}

	data, err := os.ReadFile(filepath.Join(r.analysisDir, component+"_summary.json"))
	if err != nil {
		return meta
	}

	var summary analysisSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return meta
	}

	ctx := summary.Body.Context
	if ctx.Description != "" {
		meta.Description = ctx.Description
	}
	meta.TechStack = ctx.TechStack
	meta.IntegrationPoints = ctx.IntegrationPoints

	structure := summary.Body.Structure
	if structure.ArchitecturePattern != "" {
		meta.Architecture.Pattern = structure.ArchitecturePattern
	}
	meta.Architecture.KeyDirs = structure.DomainDirs
	meta.Architecture.EntryPoints = structure.Entrypoints

	return meta
}
