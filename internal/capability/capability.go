// Package capability gates version-dependent Zabbix API behavior.
//
// Each capability is bound to the minimum server version that ships it.
// Whether a capability is available is decided once per run, against the
// version reported by apiinfo.version, before any remote objects are built.
package capability

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrUnsupportedVersion is returned by Require when the server is too old
// for the requested capability. This is a configuration error, fatal to the
// whole run — never retried.
var ErrUnsupportedVersion = errors.New("unsupported Zabbix version")

// Capability identifies a feature gate of the Zabbix API.
type Capability string

const (
	// APITokens: user.login via API token instead of username/password.
	APITokens Capability = "api-tokens"
	// PagedDashboards: dashboards carry a "pages" array instead of a flat
	// top-level "widgets" array.
	PagedDashboards Capability = "paged-dashboards"
	// ValueMaps: configuration.import accepts a valueMaps rule section.
	ValueMaps Capability = "value-maps"
)

// thresholds maps each capability to the first version supporting it.
var thresholds = map[Capability]*semver.Version{
	APITokens:       semver.MustParse("5.4.0"),
	PagedDashboards: semver.MustParse("5.4.0"),
	ValueMaps:       semver.MustParse("5.4.0"),
}

// Supported reports whether the server version satisfies the capability's
// minimum version. The threshold version itself passes.
func Supported(version *semver.Version, c Capability) bool {
	min, ok := thresholds[c]
	if !ok {
		return false
	}
	return !version.LessThan(min)
}

// Require returns an error wrapping ErrUnsupportedVersion when the
// capability is not available on the given server version.
func Require(version *semver.Version, c Capability) error {
	if Supported(version, c) {
		return nil
	}
	return fmt.Errorf("%w: %s requires Zabbix >= %s, server reports %s",
		ErrUnsupportedVersion, c, thresholds[c], version)
}
