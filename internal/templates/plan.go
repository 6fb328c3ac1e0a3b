// Package templates imports configuration templates into Zabbix through
// configuration.import, with a version-gated per-section rule set.
package templates

import (
	"github.com/Masterminds/semver/v3"

	"github.com/szulist/zabbix-proxy-dashboards/internal/capability"
)

// Rule is the create/update policy for one import section. templateLinkage
// only supports createMissing, hence the omitempty.
type Rule struct {
	CreateMissing  bool `json:"createMissing"`
	UpdateExisting bool `json:"updateExisting,omitempty"`
}

// BuildPlan returns the import rule set for the given server version. Built
// fresh per import call, never persisted. Section membership only grows
// with version: valueMaps appears once the server supports it, nothing is
// ever removed or altered below that.
func BuildPlan(version *semver.Version) map[string]Rule {
	both := Rule{CreateMissing: true, UpdateExisting: true}

	plan := map[string]Rule{
		"discoveryRules":     both,
		"graphs":             both,
		"groups":             both,
		"httptests":          both,
		"items":              both,
		"templateLinkage":    {CreateMissing: true},
		"templates":          both,
		"templateDashboards": both,
		"triggers":           both,
	}

	if capability.Supported(version, capability.ValueMaps) {
		plan["valueMaps"] = both
	}

	return plan
}
