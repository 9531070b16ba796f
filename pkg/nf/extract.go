package nf

import (
	"fmt"
	"strings"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// InstanceSource tags where an instance definition came from. The two
// on-disk schemas and the synthesized default all normalize into one
// InstanceConfig at this boundary; downstream code never sees the schemas.
type InstanceSource string

const (
	SourceStructured  InstanceSource = "structured"
	SourceLegacyRow   InstanceSource = "legacy-row"
	SourceSynthesized InstanceSource = "synthesized"
)

// InstanceConfig is one normalized network-function instance.
type InstanceConfig struct {
	Role     Role
	Name     string
	Image    string
	Source   InstanceSource
	Imported bool

	// Config artifact inputs, resolved later by ResolveArtifact.
	ConfigContent  string // embedded document, wins when non-empty
	ConfigFilePath string // referenced host file, second choice

	// ArtifactName is the host-side file name under the config directory.
	// Fixed at extraction time from the instance's ordinal within its role.
	ArtifactName string
}

// ExtractReport lists what extraction had to skip or invent.
type ExtractReport struct {
	Skipped     []string `json:"skipped,omitempty"`
	Synthesized []Role   `json:"synthesized,omitempty"`
}

// Extract reads the aggregator node's per-role configuration and returns the
// normalized instance list in role extraction order. Per role the resolution
// order is: structured config list, then the legacy row table, then one
// synthesized default when the role is marked in use. Malformed entries are
// skipped with a warning; extraction never fails.
func Extract(agg *topology.Node) ([]InstanceConfig, *ExtractReport) {
	report := &ExtractReport{}
	var out []InstanceConfig

	for _, role := range AllRoles {
		instances := extractRole(agg, role, report)
		out = append(out, instances...)
	}
	return out, report
}

// InstancesOf filters an extracted list down to one role, preserving order.
func InstancesOf(instances []InstanceConfig, role Role) []InstanceConfig {
	var out []InstanceConfig
	for _, inst := range instances {
		if inst.Role == role {
			out = append(out, inst)
		}
	}
	return out
}

func extractRole(agg *topology.Node, role Role, report *ExtractReport) []InstanceConfig {
	upper := strings.ToUpper(string(role))

	if list, ok := agg.GetList(upper+"_configs", string(role)+"_configs"); ok {
		return structuredInstances(role, list, report)
	}
	if rows, ok := agg.GetList("Component5G_" + upper + "table"); ok {
		return legacyInstances(role, rows, report)
	}
	if roleInUse(agg, role) {
		report.Synthesized = append(report.Synthesized, role)
		logging.Debug("synthesizing default instance for enabled role",
			logging.Role(string(role)))
		return []InstanceConfig{{
			Role:         role,
			Name:         role.DefaultInstanceName(1),
			Source:       SourceSynthesized,
			ArtifactName: role.ArtifactName(1),
		}}
	}
	return nil
}

func structuredInstances(role Role, list []any, report *ExtractReport) []InstanceConfig {
	var out []InstanceConfig
	for i, raw := range list {
		entry, ok := raw.(map[string]any)
		if !ok {
			skip(report, role, i, "entry is not a mapping")
			continue
		}
		ordinal := len(out) + 1
		inst := InstanceConfig{
			Role:         role,
			Source:       SourceStructured,
			ArtifactName: role.ArtifactName(ordinal),
		}
		inst.Name = stringField(entry, "name")
		if inst.Name == "" {
			inst.Name = role.DefaultInstanceName(ordinal)
		}
		inst.Image = stringField(entry, "image")
		inst.ConfigContent = stringField(entry, "config_content")
		inst.ConfigFilePath = stringField(entry, "config_file_path")
		if b, ok := entry["imported"].(bool); ok {
			inst.Imported = b
		}
		out = append(out, inst)
	}
	return out
}

// legacyInstances decodes the old row-table schema: each row is a
// [name, config_file] pair. Rows missing the name cell are skipped.
func legacyInstances(role Role, rows []any, report *ExtractReport) []InstanceConfig {
	var out []InstanceConfig
	for i, raw := range rows {
		row, ok := raw.([]any)
		if !ok || len(row) == 0 {
			skip(report, role, i, "row is not a non-empty list")
			continue
		}
		name, _ := row[0].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			skip(report, role, i, "row has no name")
			continue
		}
		ordinal := len(out) + 1
		inst := InstanceConfig{
			Role:         role,
			Name:         name,
			Source:       SourceLegacyRow,
			ArtifactName: role.ArtifactName(ordinal),
		}
		if len(row) > 1 {
			if file, ok := row[1].(string); ok {
				inst.ConfigFilePath = strings.TrimSpace(file)
			}
		}
		out = append(out, inst)
	}
	return out
}

// roleInUse reports whether the aggregator marks an otherwise unconfigured
// role as enabled, either by a per-role flag or by membership in an
// enabled-components list.
func roleInUse(agg *topology.Node, role Role) bool {
	upper := strings.ToUpper(string(role))
	if b, ok := agg.GetBool(upper+"_enabled", string(role)+"_enabled"); ok {
		return b
	}
	if list, ok := agg.GetList("enabled_components", "Component5G_enabled"); ok {
		for _, raw := range list {
			if s, ok := raw.(string); ok && strings.EqualFold(strings.TrimSpace(s), string(role)) {
				return true
			}
		}
	}
	return false
}

func skip(report *ExtractReport, role Role, index int, reason string) {
	msg := fmt.Sprintf("%s[%d]: %s", role, index, reason)
	report.Skipped = append(report.Skipped, msg)
	logging.Warn("skipping malformed instance entry",
		logging.Role(string(role)), logging.Int("index", index),
		logging.String("reason", reason))
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
