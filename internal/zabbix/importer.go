package zabbix

import (
	"context"
	"fmt"
)

// ImportConfiguration submits a template document to configuration.import
// under the given per-section rule set. A failed import is reported to the
// caller, who treats it as a per-template outcome.
func (c *Client) ImportConfiguration(ctx context.Context, source, format string, rules interface{}) error {
	params := map[string]interface{}{
		"format": format,
		"rules":  rules,
		"source": source,
	}

	if _, err := c.callWithContext(ctx, "configuration.import", params); err != nil {
		return fmt.Errorf("failed to import configuration: %w", err)
	}
	return nil
}
