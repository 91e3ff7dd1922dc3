package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL   = "http://127.0.0.1:8844"
	DefaultLogLevel = "info"
	DefaultBackend  = "minio"

	// BucketName is fixed. Every blob this system touches lives in one
	// container; the __meta/ prefix inside it is reserved for metadata
	// documents.
	BucketName = "videos"

	configFileName = ".vidbin.toml"

	configDirEnvKey  = "VIDBIN_CONFIG_DIR"
	apiURLEnvKey     = "VIDBIN_API_URL"
	logLevelEnvKey   = "VIDBIN_LOG_LEVEL"
	connectionEnvKey = "VIDBIN_STORAGE_CONNECTION"

	// Backends accepted for storage.backend.
	BackendMinio  = "minio"
	BackendMemory = "memory"
)

// StorageConfig holds non-secret storage settings. The secret key only
// ever arrives through the VIDBIN_STORAGE_CONNECTION environment variable.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Config defines runtime configuration for vidbin.
type Config struct {
	APIURL   string        `toml:"api_url"`
	LogLevel string        `toml:"log_level"`
	Storage  StorageConfig `toml:"storage"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Storage: StorageConfig{
			Backend: DefaultBackend,
		},
	}
}

// Connection is the parsed storage credential.
type Connection struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ParseConnection parses the connection-string form used by
// VIDBIN_STORAGE_CONNECTION:
//
//	endpoint=play.min.io;access_key=AK;secret_key=SK;use_ssl=true
//
// Unknown fields are ignored; missing fields stay empty so the caller can
// fall back to file-level settings.
func ParseConnection(raw string) Connection {
	var conn Connection
	for _, part := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "endpoint":
			conn.Endpoint = value
		case "access_key":
			conn.AccessKey = value
		case "secret_key":
			conn.SecretKey = value
		case "use_ssl":
			if parsed, err := strconv.ParseBool(value); err == nil {
				conn.UseSSL = parsed
			}
		}
	}
	return conn
}

// StorageConnection resolves the storage credential: the environment
// connection string wins field-by-field, file config fills the gaps, and
// the merged result must name an endpoint, access key, and secret key.
func (c *Config) StorageConnection() (Connection, error) {
	raw := strings.TrimSpace(os.Getenv(connectionEnvKey))
	if raw == "" {
		return Connection{}, fmt.Errorf("%s is not set", connectionEnvKey)
	}

	conn := ParseConnection(raw)
	if conn.Endpoint == "" {
		conn.Endpoint = c.Storage.Endpoint
		conn.UseSSL = c.Storage.UseSSL
	}
	if conn.AccessKey == "" {
		conn.AccessKey = c.Storage.AccessKey
	}

	if conn.Endpoint == "" {
		return Connection{}, fmt.Errorf("storage endpoint is required (set storage.endpoint or endpoint= in %s)", connectionEnvKey)
	}
	if conn.AccessKey == "" || conn.SecretKey == "" {
		return Connection{}, fmt.Errorf("invalid storage connection: access_key/secret_key missing")
	}
	return conn, nil
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

var allowedKeys = []string{
	"api_url",
	"log_level",
	"storage.backend",
	"storage.endpoint",
	"storage.access_key",
	"storage.use_ssl",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "storage.backend":
		return c.Storage.Backend, nil
	case "storage.endpoint":
		return c.Storage.Endpoint, nil
	case "storage.access_key":
		return c.Storage.AccessKey, nil
	case "storage.use_ssl":
		return strconv.FormatBool(c.Storage.UseSSL), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if _, err := loadFileIfExists(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}
		if cwd, err := os.Getwd(); err == nil {
			if err := loadFile(filepath.Join(cwd, configFileName), &cfg); err != nil {
				return nil, err
			}
		}
	}

	if apiURL := strings.TrimSpace(os.Getenv(apiURLEnvKey)); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if level := strings.TrimSpace(os.Getenv(logLevelEnvKey)); level != "" {
		cfg.LogLevel = level
	}

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "storage.use_ssl":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "storage.backend":
		switch value {
		case BackendMinio, BackendMemory:
			return value, nil
		}
		return nil, fmt.Errorf("%s must be %q or %q", key, BackendMinio, BackendMemory)
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}

	child, ok := data[parts[0]].(map[string]any)
	if !ok {
		if _, exists := data[parts[0]]; exists {
			return fmt.Errorf("config key %s conflicts with an existing value", parts[0])
		}
		child = map[string]any{}
		data[parts[0]] = child
	}
	return setNestedKey(child, parts[1:], value)
}
