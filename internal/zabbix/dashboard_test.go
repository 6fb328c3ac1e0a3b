package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestIsConflict(t *testing.T) {
	apiErr := &APIError{
		Code:    -32602,
		Message: "Application error.",
		Data:    `Dashboard "x" already exists.`,
	}

	if !isConflict(apiErr) {
		t.Error("bare APIError with conflict data should match")
	}
	if !isConflict(fmt.Errorf("failed to create dashboard: %w", apiErr)) {
		t.Error("wrapped APIError with conflict data should match")
	}
	if isConflict(errors.New("already exists")) {
		t.Error("a plain error must not match, only API error data")
	}
	if isConflict(&APIError{Code: -32602, Message: "Application error.", Data: "no permissions"}) {
		t.Error("non-conflict API error data must not match")
	}
}

func TestCreateDashboard(t *testing.T) {
	var gotDoc map[string]interface{}
	ts := newTestServer(t, func(method string, params json.RawMessage) (interface{}, *APIError) {
		if method == "dashboard.create" {
			if err := json.Unmarshal(params, &gotDoc); err != nil {
				t.Fatalf("decode create params: %v", err)
			}
			return map[string]interface{}{
				"dashboardids": []interface{}{"57"},
			}, nil
		}
		return nil, &APIError{Code: -1, Message: "unexpected", Data: method}
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	doc := map[string]interface{}{"name": "Zabbix proxies health", "pages": []interface{}{}}
	id, err := c.CreateDashboard(context.Background(), doc)
	if err != nil {
		t.Fatalf("CreateDashboard: %v", err)
	}
	if id != "57" {
		t.Errorf("id = %q, want 57", id)
	}
	if gotDoc["name"] != "Zabbix proxies health" {
		t.Errorf("transmitted name = %v", gotDoc["name"])
	}
}

func TestCreateDashboard_ConflictMapped(t *testing.T) {
	ts := newTestServer(t, func(method string, _ json.RawMessage) (interface{}, *APIError) {
		return nil, &APIError{
			Code:    -32602,
			Message: "Application error.",
			Data:    `Dashboard "Zabbix proxies health" already exists.`,
		}
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	_, err := c.CreateDashboard(context.Background(), map[string]interface{}{"name": "x"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestCreateDashboard_OtherAPIErrorNotConflict(t *testing.T) {
	ts := newTestServer(t, func(method string, _ json.RawMessage) (interface{}, *APIError) {
		return nil, &APIError{
			Code:    -32602,
			Message: "Application error.",
			Data:    "No permissions to referred object or it does not exist!",
		}
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	_, err := c.CreateDashboard(context.Background(), map[string]interface{}{"name": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrConflict) {
		t.Errorf("permission failure must not map to ErrConflict: %v", err)
	}
}

func TestFindDashboardByName(t *testing.T) {
	ts := newTestServer(t, func(method string, params json.RawMessage) (interface{}, *APIError) {
		if method == "dashboard.get" {
			var p struct {
				Filter map[string]string `json:"filter"`
			}
			if err := json.Unmarshal(params, &p); err != nil {
				t.Fatalf("decode get params: %v", err)
			}
			if p.Filter["name"] != "Zabbix proxy health: fra-01" {
				t.Errorf("filter name = %q", p.Filter["name"])
			}
			return []map[string]string{{"dashboardid": "57"}}, nil
		}
		return nil, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	id, err := c.FindDashboardByName(context.Background(), "Zabbix proxy health: fra-01")
	if err != nil {
		t.Fatalf("FindDashboardByName: %v", err)
	}
	if id != "57" {
		t.Errorf("id = %q, want 57", id)
	}
}

func TestFindDashboardByName_NotFound(t *testing.T) {
	ts := newTestServer(t, func(method string, _ json.RawMessage) (interface{}, *APIError) {
		return []interface{}{}, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	_, err := c.FindDashboardByName(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDashboard(t *testing.T) {
	var gotParams map[string]interface{}
	ts := newTestServer(t, func(method string, params json.RawMessage) (interface{}, *APIError) {
		if method == "dashboard.update" {
			if err := json.Unmarshal(params, &gotParams); err != nil {
				t.Fatalf("decode update params: %v", err)
			}
			return map[string]interface{}{"dashboardids": []interface{}{"57"}}, nil
		}
		return nil, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	params := map[string]interface{}{"pages": []interface{}{}}
	if err := c.UpdateDashboard(context.Background(), "57", params); err != nil {
		t.Fatalf("UpdateDashboard: %v", err)
	}

	if gotParams["dashboardid"] != "57" {
		t.Errorf("dashboardid = %v, want 57", gotParams["dashboardid"])
	}
	if _, ok := gotParams["pages"]; !ok {
		t.Error("update params missing pages")
	}
	// The caller's map must not pick up the id.
	if _, ok := params["dashboardid"]; ok {
		t.Error("UpdateDashboard mutated the caller's params")
	}
}

func TestGetGroupHosts(t *testing.T) {
	ts := newTestServer(t, func(method string, params json.RawMessage) (interface{}, *APIError) {
		if method == "hostgroup.get" {
			var p struct {
				Filter      map[string]string `json:"filter"`
				SelectHosts []string          `json:"selectHosts"`
			}
			if err := json.Unmarshal(params, &p); err != nil {
				t.Fatalf("decode params: %v", err)
			}
			if p.Filter["name"] != "Proxies" {
				t.Errorf("filter name = %q, want Proxies", p.Filter["name"])
			}
			if len(p.SelectHosts) != 2 {
				t.Errorf("selectHosts = %v, want [hostid name]", p.SelectHosts)
			}
			return []map[string]interface{}{
				{
					"groupid": "12",
					"name":    "Proxies",
					"hosts": []map[string]string{
						{"hostid": "10084", "name": "proxy-fra-01"},
						{"hostid": "10085", "name": "proxy-ams-01"},
					},
				},
			}, nil
		}
		return nil, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	hosts, err := c.GetGroupHosts(context.Background(), "Proxies")
	if err != nil {
		t.Fatalf("GetGroupHosts: %v", err)
	}
	if len(hosts) != 2 {
		t.Fatalf("len(hosts) = %d, want 2", len(hosts))
	}
	if hosts[0].HostID != "10084" || hosts[0].Name != "proxy-fra-01" {
		t.Errorf("hosts[0] = %+v", hosts[0])
	}
}

func TestGetGroupHosts_GroupNotFound(t *testing.T) {
	ts := newTestServer(t, func(method string, _ json.RawMessage) (interface{}, *APIError) {
		return []interface{}{}, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	_, err := c.GetGroupHosts(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetGroupHosts_EmptyGroup(t *testing.T) {
	ts := newTestServer(t, func(method string, _ json.RawMessage) (interface{}, *APIError) {
		return []map[string]interface{}{
			{"groupid": "12", "name": "Proxies"},
		}, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	hosts, err := c.GetGroupHosts(context.Background(), "Proxies")
	if err != nil {
		t.Fatalf("an existing empty group is not an error: %v", err)
	}
	if len(hosts) != 0 {
		t.Errorf("len(hosts) = %d, want 0", len(hosts))
	}
}

func TestImportConfiguration(t *testing.T) {
	var gotParams map[string]interface{}
	ts := newTestServer(t, func(method string, params json.RawMessage) (interface{}, *APIError) {
		if method == "configuration.import" {
			if err := json.Unmarshal(params, &gotParams); err != nil {
				t.Fatalf("decode params: %v", err)
			}
			return true, nil
		}
		return nil, nil
	})
	defer ts.Close()

	c := newTestClient(t, ts)

	rules := map[string]interface{}{"items": map[string]bool{"createMissing": true}}
	if err := c.ImportConfiguration(context.Background(), "template-body", "yaml", rules); err != nil {
		t.Fatalf("ImportConfiguration: %v", err)
	}

	if gotParams["format"] != "yaml" {
		t.Errorf("format = %v, want yaml", gotParams["format"])
	}
	if gotParams["source"] != "template-body" {
		t.Errorf("source = %v, want template-body", gotParams["source"])
	}
	if _, ok := gotParams["rules"]; !ok {
		t.Error("params missing rules")
	}
}
