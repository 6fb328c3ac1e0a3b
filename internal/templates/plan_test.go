package templates

import (
	"encoding/json"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestBuildPlan_Modern(t *testing.T) {
	plan := BuildPlan(semver.MustParse("5.4.0"))

	wantBoth := []string{
		"discoveryRules", "graphs", "groups", "httptests", "items",
		"templates", "templateDashboards", "triggers", "valueMaps",
	}
	for _, section := range wantBoth {
		rule, ok := plan[section]
		if !ok {
			t.Errorf("missing section %q", section)
			continue
		}
		if !rule.CreateMissing || !rule.UpdateExisting {
			t.Errorf("%s = %+v, want createMissing and updateExisting", section, rule)
		}
	}

	linkage, ok := plan["templateLinkage"]
	if !ok {
		t.Fatal("missing templateLinkage section")
	}
	if !linkage.CreateMissing || linkage.UpdateExisting {
		t.Errorf("templateLinkage = %+v, want createMissing only", linkage)
	}

	if len(plan) != 10 {
		t.Errorf("plan has %d sections, want 10", len(plan))
	}
}

func TestBuildPlan_LegacyOmitsValueMaps(t *testing.T) {
	plan := BuildPlan(semver.MustParse("5.3.9"))

	if _, ok := plan["valueMaps"]; ok {
		t.Error("valueMaps must not be sent to a pre-5.4 server")
	}
	if len(plan) != 9 {
		t.Errorf("plan has %d sections, want 9", len(plan))
	}
}

func TestRule_LinkageOmitsUpdateExisting(t *testing.T) {
	data, err := json.Marshal(Rule{CreateMissing: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["updateExisting"]; ok {
		t.Error("false updateExisting must be omitted from the wire form")
	}
	if raw["createMissing"] != true {
		t.Errorf("createMissing = %v, want true", raw["createMissing"])
	}
}
