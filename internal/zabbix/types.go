package zabbix

// Host is a member of a Zabbix host group. For this tool every host is a
// proxy; hostid is its identity and name its visible display name.
type Host struct {
	HostID string `json:"hostid"`
	Name   string `json:"name"`
}

// HostGroup is a Zabbix host group with its selected member hosts.
type HostGroup struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
	Hosts   []Host `json:"hosts,omitempty"`
}

// APIResponse represents a generic Zabbix API response
type APIResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result"`
	Error   *APIError   `json:"error,omitempty"`
	ID      int         `json:"id"`
}

// APIError represents a Zabbix API error
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	return e.Message + ": " + e.Data
}
