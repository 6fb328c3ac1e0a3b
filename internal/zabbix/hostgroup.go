package zabbix

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetGroupHosts returns the member hosts of a host group, with hostid and
// visible name selected. An absent group is ErrNotFound; an existing but
// empty group returns an empty slice.
func (c *Client) GetGroupHosts(ctx context.Context, groupName string) ([]Host, error) {
	params := map[string]interface{}{
		"output": []string{"groupid", "name"},
		"filter": map[string]interface{}{
			"name": groupName,
		},
		"selectHosts": []string{"hostid", "name"},
	}

	result, err := c.callWithContext(ctx, "hostgroup.get", params)
	if err != nil {
		return nil, fmt.Errorf("failed to get host group: %w", err)
	}

	groups, err := parseHostGroups(result)
	if err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("host group %q: %w", groupName, ErrNotFound)
	}

	return groups[0].Hosts, nil
}

// parseHostGroups parses the API response into a slice of HostGroup
func parseHostGroups(result interface{}) ([]HostGroup, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var groups []HostGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal host groups: %w", err)
	}

	return groups, nil
}
