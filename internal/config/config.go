package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultHTTPTimeoutSec     = 15
	defaultMaxBodyBytes       = 8 << 20
	defaultMaxRedirects       = 5
	defaultRefreshConcurrency = 4
	defaultExcerptLength      = 500
)

const (
	defaultUserAgent  = "czytaj/0.1"
	defaultLogLevel   = "info"
	configFolderName  = "czytaj"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath             string
	HTTPTimeout        time.Duration
	MaxBodyBytes       int64
	MaxRedirects       int
	RefreshConcurrency int
	ExcerptLength      int
	UserAgent          string
	LogLevel           string
}

// Default returns the built-in configuration for the given home directory.
func Default(home string) Config {
	return Config{
		DBPath:             filepath.Join(home, ".local", "share", "czytaj", "czytaj.db"),
		HTTPTimeout:        defaultHTTPTimeoutSec * time.Second,
		MaxBodyBytes:       defaultMaxBodyBytes,
		MaxRedirects:       defaultMaxRedirects,
		RefreshConcurrency: defaultRefreshConcurrency,
		ExcerptLength:      defaultExcerptLength,
		UserAgent:          defaultUserAgent,
		LogLevel:           defaultLogLevel,
	}
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	cfg := Default(home)

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.MaxRedirects < 0 {
		cfg.MaxRedirects = defaultMaxRedirects
	}
	if cfg.RefreshConcurrency < 1 {
		cfg.RefreshConcurrency = defaultRefreshConcurrency
	}
	if cfg.ExcerptLength < 1 {
		cfg.ExcerptLength = defaultExcerptLength
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string `toml:"db_path"`
	HTTPTimeoutSeconds *int    `toml:"http_timeout_seconds"`
	MaxBodyBytes       *int64  `toml:"max_body_bytes"`
	MaxRedirects       *int    `toml:"max_redirects"`
	RefreshConcurrency *int    `toml:"refresh_concurrency"`
	ExcerptLength      *int    `toml:"excerpt_length"`
	UserAgent          *string `toml:"user_agent"`
	LogLevel           *string `toml:"log_level"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.MaxBodyBytes != nil && *cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid config file %q: max_body_bytes must be > 0", path)
	}
	if cfg.MaxRedirects != nil && *cfg.MaxRedirects < 0 {
		return fmt.Errorf("invalid config file %q: max_redirects must be >= 0", path)
	}
	if cfg.RefreshConcurrency != nil && *cfg.RefreshConcurrency < 1 {
		return fmt.Errorf("invalid config file %q: refresh_concurrency must be >= 1", path)
	}
	if cfg.ExcerptLength != nil && *cfg.ExcerptLength < 1 {
		return fmt.Errorf("invalid config file %q: excerpt_length must be >= 1", path)
	}
	if cfg.LogLevel != nil && !validLogLevel(*cfg.LogLevel) {
		return fmt.Errorf("invalid config file %q: log_level must be one of debug|info|warn|error", path)
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.MaxBodyBytes != nil {
		cfg.MaxBodyBytes = *fileCfg.MaxBodyBytes
	}
	if fileCfg.MaxRedirects != nil {
		cfg.MaxRedirects = *fileCfg.MaxRedirects
	}
	if fileCfg.RefreshConcurrency != nil {
		cfg.RefreshConcurrency = *fileCfg.RefreshConcurrency
	}
	if fileCfg.ExcerptLength != nil {
		cfg.ExcerptLength = *fileCfg.ExcerptLength
	}
	if fileCfg.UserAgent != nil {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(*fileCfg.LogLevel)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("CZYTAJ_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("CZYTAJ_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("CZYTAJ_MAX_BODY_BYTES"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	if v, ok := os.LookupEnv("CZYTAJ_MAX_REDIRECTS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRedirects = n
		}
	}
	if v, ok := os.LookupEnv("CZYTAJ_REFRESH_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.RefreshConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("CZYTAJ_EXCERPT_LENGTH"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.ExcerptLength = n
		}
	}
	if v, ok := os.LookupEnv("CZYTAJ_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("CZYTAJ_LOG_LEVEL"); ok && validLogLevel(v) {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func validLogLevel(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
