package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/cpm/config.yml.
type GlobalConfig struct {
	LibraryPath string       `yaml:"library_path,omitempty"`
	Backup      BackupConfig `yaml:"backup,omitempty"`
}

// BackupConfig points at an S3-compatible bucket for snapshot backups.
type BackupConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Secure    *bool  `yaml:"secure,omitempty"` // nil means true
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "cpm"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// EnvAccessKey and EnvSecretKey override the backup credentials.
	EnvAccessKey = "CPM_S3_ACCESS_KEY"
	EnvSecretKey = "CPM_S3_SECRET_KEY"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cpm/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandPath(cfg.LibraryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable if set, else configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

// Credentials returns the backup access and secret keys, preferring the
// environment over the config file.
func (b BackupConfig) Credentials() (accessKey, secretKey string) {
	return GetConfigValue(EnvAccessKey, b.AccessKey), GetConfigValue(EnvSecretKey, b.SecretKey)
}

// UseSSL reports whether the backup endpoint is reached over TLS.
func (b BackupConfig) UseSSL() bool {
	return b.Secure == nil || *b.Secure
}

// ErrBackupNotConfigured is returned when the backup block lacks an endpoint or bucket.
var ErrBackupNotConfigured = errors.New("backup not configured")

// Validate checks that the backup block names an endpoint and bucket.
func (b BackupConfig) Validate() error {
	if b.Endpoint == "" || b.Bucket == "" {
		return fmt.Errorf("%w: set backup.endpoint and backup.bucket in %s", ErrBackupNotConfigured, GlobalConfigPath())
	}
	return nil
}

// ErrLibraryPathNotExist is returned when the configured library_path doesn't exist.
var ErrLibraryPathNotExist = errors.New("library_path does not exist")

// DefaultLibrary returns the configured library_path after checking it is
// a library. Returns "" with no error when library_path is not set.
func DefaultLibrary() (string, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	if cfg.LibraryPath == "" {
		return "", nil
	}
	if !IsLibrary(cfg.LibraryPath) {
		return "", fmt.Errorf("%w: %s", ErrLibraryPathNotExist, cfg.LibraryPath)
	}
	return cfg.LibraryPath, nil
}

// HelpfulConfigMessage returns a helpful message when no library is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No library found.

Run 'cpm init' in the directory holding your papers, or create %s
to set a default library:
  mkdir -p %s
  echo 'library_path: /path/to/your/papers' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
