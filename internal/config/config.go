package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/ini.v1"
)

// DefaultConfigPath is the default config path.
const DefaultConfigPath = "/etc/zpd.yaml"

// configSearchPaths lists config file paths to try, in priority order.
var configSearchPaths = []string{
	"/etc/zpd.yaml",
	"/etc/zpd.conf", // legacy INI
}

// FindConfigPath returns the first existing config file from the search paths.
// If none exist, it returns DefaultConfigPath (which will fail with a clear error).
func FindConfigPath() string {
	for _, path := range configSearchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return DefaultConfigPath
}

// Config holds all configuration values for zpd
type Config struct {
	Zabbix     ZabbixConfig     `koanf:"zabbix"`
	Dashboards DashboardsConfig `koanf:"dashboards"`
	Templates  TemplatesConfig  `koanf:"templates"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

// ZabbixConfig holds Zabbix connection settings.
// Either Username/Password or Token must be set; token login is only
// accepted by Zabbix >= 5.4.
type ZabbixConfig struct {
	APIURL    string `koanf:"api_url"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	Token     string `koanf:"token"`
	VerifySSL bool   `koanf:"verify_ssl"`
	Timeout   int    `koanf:"timeout"`
}

// DashboardsConfig holds dashboard provisioning settings
type DashboardsConfig struct {
	ProxyGroup string `koanf:"proxy_group"`
	Mode       string `koanf:"mode"`
	Force      bool   `koanf:"force"`
}

// TemplatesConfig holds template sync settings
type TemplatesConfig struct {
	Sources []string `koanf:"sources"`
	Timeout int      `koanf:"timeout"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Zabbix: ZabbixConfig{
			APIURL:    "http://localhost",
			VerifySSL: true,
			Timeout:   30,
		},
		Dashboards: DashboardsConfig{
			Mode: "paged",
		},
		Templates: TemplatesConfig{
			Timeout: 30,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}

// Load reads configuration from a file, auto-detecting format by extension.
// .yaml/.yml → YAML (Koanf), .conf/.ini or anything else → legacy INI.
// Environment variables (ZPD_ prefix) always override file values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return loadINI(path)
	}
}

// loadYAML loads config from a YAML file with Koanf.
func loadYAML(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// loadINI loads config from a legacy INI file.
func loadINI(path string) (*Config, error) {
	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI config file: %w", err)
	}

	m, warnings := iniToMap(iniFile)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, err
	}

	if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load INI values: %w", err)
	}

	if err := loadEnvOverrides(k); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(k)
}

// iniKeyMap maps INI key names (lowercased, no separators) to koanf key paths.
var iniKeyMap = map[string]string{
	"zabbixapiurl":    "zabbix.api_url",
	"zabbixusername":  "zabbix.username",
	"zabbixpassword":  "zabbix.password",
	"zabbixtoken":     "zabbix.token",
	"zabbixverifyssl": "zabbix.verify_ssl",
	"verifyssl":       "zabbix.verify_ssl",
	"timeout":         "zabbix.timeout",
	"proxygroup":      "dashboards.proxy_group",
	"creationmode":    "dashboards.mode",
	"mode":            "dashboards.mode",
	"force":           "dashboards.force",
	"templates":       "templates.sources",
}

// iniToMap maps INI section/key names to the nested koanf key namespace.
// It returns the mapped values and a slice of warnings for unrecognized keys.
func iniToMap(f *ini.File) (map[string]interface{}, []string) {
	m := make(map[string]interface{})
	var warnings []string

	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			normalised := strings.ToLower(key.Name())
			koanfKey, ok := iniKeyMap[normalised]
			if !ok {
				if section.Name() != "DEFAULT" {
					warnings = append(warnings, fmt.Sprintf("unrecognized INI key [%s] %s (skipped)", section.Name(), key.Name()))
				}
				continue
			}
			if koanfKey == "templates.sources" {
				// comma-separated list in INI form
				var sources []string
				for _, s := range strings.Split(key.Value(), ",") {
					if s = strings.TrimSpace(s); s != "" {
						sources = append(sources, s)
					}
				}
				m[koanfKey] = sources
				continue
			}
			m[koanfKey] = key.Value()
		}
	}

	return m, warnings
}

// --- helpers ---

func loadDefaults(k *koanf.Koanf) error {
	defaults := DefaultConfig()
	return k.Load(confmap.Provider(map[string]interface{}{
		"zabbix.api_url":    defaults.Zabbix.APIURL,
		"zabbix.verify_ssl": defaults.Zabbix.VerifySSL,
		"zabbix.timeout":    defaults.Zabbix.Timeout,
		"dashboards.mode":   defaults.Dashboards.Mode,
		"templates.timeout": defaults.Templates.Timeout,
		"telemetry.enabled": defaults.Telemetry.Enabled,
	}, "."), nil)
}

func loadEnvOverrides(k *koanf.Koanf) error {
	// ZPD_ZABBIX_API_URL → zabbix.api_url
	return k.Load(env.Provider("ZPD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ZPD_")
		s = strings.ToLower(s)
		if idx := strings.Index(s, "_"); idx >= 0 {
			return s[:idx] + "." + s[idx+1:]
		}
		return s
	}), nil)
}

func unmarshalAndValidate(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that connection fields are set and values are in range.
func (c *Config) Validate() error {
	var errs []error

	if c.Zabbix.APIURL == "" {
		errs = append(errs, fmt.Errorf("zabbix.api_url is required"))
	} else {
		u, err := url.Parse(c.Zabbix.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("zabbix.api_url must be a valid URL with scheme and host"))
		}
	}

	hasUserPass := c.Zabbix.Username != "" && c.Zabbix.Password != ""
	if !hasUserPass && c.Zabbix.Token == "" {
		errs = append(errs, fmt.Errorf("either zabbix.username/zabbix.password or zabbix.token is required"))
	}
	if c.Zabbix.Username != "" && c.Zabbix.Password == "" {
		errs = append(errs, fmt.Errorf("zabbix.password is required when zabbix.username is set"))
	}

	switch c.Dashboards.Mode {
	case "paged", "single":
	default:
		errs = append(errs, fmt.Errorf("dashboards.mode must be paged or single, got %q", c.Dashboards.Mode))
	}

	if c.Zabbix.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("zabbix.timeout must be greater than 0, got %d", c.Zabbix.Timeout))
	}

	if c.Templates.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("templates.timeout must be greater than 0, got %d", c.Templates.Timeout))
	}

	return errors.Join(errs...)
}

// TokenAuth reports whether the config selects API-token authentication.
// Username/password wins when both are configured.
func (c *Config) TokenAuth() bool {
	return !(c.Zabbix.Username != "" && c.Zabbix.Password != "") && c.Zabbix.Token != ""
}

// ZabbixAPIURL returns the full Zabbix API endpoint URL
func (c *Config) ZabbixAPIURL() string {
	return strings.TrimRight(c.Zabbix.APIURL, "/") + "/api_jsonrpc.php"
}
