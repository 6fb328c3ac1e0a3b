package zabbix

import "errors"

// ErrNotFound marks a lookup for an object that does not exist: an absent
// host group (fatal, exit code 2) or a missing dashboard during a forced
// update (per-document failure).
var ErrNotFound = errors.New("not found")

// ErrConflict marks a create call rejected because an object with that name
// already exists. Expected during reconciliation; it drives the update
// branch.
var ErrConflict = errors.New("already exists")
