package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CreateDashboard creates a dashboard from its JSON form and returns the new
// dashboardid. A name collision is reported as ErrConflict so the caller can
// decide between skipping and updating in place.
func (c *Client) CreateDashboard(ctx context.Context, doc interface{}) (string, error) {
	result, err := c.callWithContext(ctx, "dashboard.create", doc)
	if err != nil {
		if isConflict(err) {
			return "", fmt.Errorf("dashboard %w: %s", ErrConflict, err)
		}
		return "", fmt.Errorf("failed to create dashboard: %w", err)
	}

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response type: %T", result)
	}

	ids, ok := resultMap["dashboardids"].([]interface{})
	if !ok || len(ids) == 0 {
		return "", fmt.Errorf("no dashboardid in response")
	}

	id, ok := ids[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected dashboardid type: %T", ids[0])
	}
	return id, nil
}

// FindDashboardByName returns the id of the dashboard with exactly that
// name, or ErrNotFound.
func (c *Client) FindDashboardByName(ctx context.Context, name string) (string, error) {
	params := map[string]interface{}{
		"output": []string{"dashboardid"},
		"filter": map[string]interface{}{
			"name": name,
		},
	}

	result, err := c.callWithContext(ctx, "dashboard.get", params)
	if err != nil {
		return "", fmt.Errorf("failed to get dashboard: %w", err)
	}

	dashboards, err := parseIDList(result, "dashboardid")
	if err != nil {
		return "", err
	}
	if len(dashboards) == 0 {
		return "", fmt.Errorf("dashboard %q: %w", name, ErrNotFound)
	}
	return dashboards[0], nil
}

// UpdateDashboard applies a partial field set to an existing dashboard,
// leaving every attribute not named in params untouched.
func (c *Client) UpdateDashboard(ctx context.Context, id string, params map[string]interface{}) error {
	updateParams := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		updateParams[k] = v
	}
	updateParams["dashboardid"] = id

	if _, err := c.callWithContext(ctx, "dashboard.update", updateParams); err != nil {
		return fmt.Errorf("failed to update dashboard: %w", err)
	}
	return nil
}

// isConflict reports whether an API error is a name-collision rejection.
// The Zabbix API has no structured code for this; it reports it in the
// error data text.
func isConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Data), "already exists")
}

// parseIDList extracts the named id field from a get-style list response.
func parseIDList(result interface{}, idField string) ([]string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var entries []map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal id list: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if id, ok := e[idField]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
