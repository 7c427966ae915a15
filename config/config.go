package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"redirectly/logger"

	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir    string
	LogPathApp   string
	LogPathProxy string
	CACertPath   string
	CAKeyPath    string
	DBPath       string
	LogLevel     string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port    string `mapstructure:"port"`
		LogPath string `mapstructure:"log_path"`
	} `mapstructure:"server"`
	Proxy struct {
		Port       string `mapstructure:"port"`
		CACertPath string `mapstructure:"ca_cert_path"`
		CAKeyPath  string `mapstructure:"ca_key_path"`
		LogPath    string `mapstructure:"log_path"`
		// TabHeader names the request header clients use to identify a tab.
		// Requests without it are attributed to the client host.
		TabHeader string `mapstructure:"tab_header"`
		// ShareLinks turns on rule import from redirect=/setcookie= parameters
		// seen on top-level navigations.
		ShareLinks bool `mapstructure:"share_links"`
	} `mapstructure:"proxy"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
	MatchLog MatchLogConfig `mapstructure:"match_log"`
}

// MatchLogConfig holds settings for persisting rule matches.
type MatchLogConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	BufferSize           int  `mapstructure:"buffer_size"`
	MaxEntries           int  `mapstructure:"max_entries"`
	PruneIntervalSeconds int  `mapstructure:"prune_interval_seconds"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandTilde is exported for the cmd package's flag handling.
func ExpandTilde(path string) (string, error) {
	return expandTilde(path)
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDir = "."
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "redirectly")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathProxy = filepath.Join(logDir, "proxy.log")
	paths.CACertPath = filepath.Join(paths.ConfigDir, "redirectly-ca.crt")
	paths.CAKeyPath = filepath.Join(paths.ConfigDir, "redirectly-ca.key")
	paths.DBPath = filepath.Join(paths.ConfigDir, "redirectly.db")
	paths.LogLevel = "INFO"
	return paths
}

// setDefaults registers every default on v. Split out so tests can build a
// configuration without touching the user's config directory.
func setDefaults(v *viper.Viper, defaults DefaultPaths) {
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8778")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("proxy.port", "8777")
	v.SetDefault("proxy.ca_cert_path", defaults.CACertPath)
	v.SetDefault("proxy.ca_key_path", defaults.CAKeyPath)
	v.SetDefault("proxy.log_path", defaults.LogPathProxy)
	v.SetDefault("proxy.tab_header", "X-Redirectly-Tab")
	v.SetDefault("proxy.share_links", true)
	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("match_log.enabled", true)
	v.SetDefault("match_log.buffer_size", 256)
	v.SetDefault("match_log.max_entries", 10000)
	v.SetDefault("match_log.prune_interval_seconds", 60)
}

// Load reads configuration from cfgFile (or the default search path) plus
// REDIRECTLY_* environment variables. It does not touch loggers.
func Load(cfgFile string) (Configuration, string, error) {
	v := viper.New()
	defaults := GetDefaultConfigPaths()
	setDefaults(v, defaults)

	if cfgFile != "" {
		expanded, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expanded = cfgFile
		}
		v.SetConfigFile(expanded)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("REDIRECTLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Configuration
	usedMsg := "Using default/environment configuration."
	if err := v.ReadInConfig(); err == nil {
		usedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		if cfgFile != "" || !os.IsNotExist(err) {
			return cfg, usedMsg, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, usedMsg, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	var err error
	if cfg.Database.Path, err = expandTilde(cfg.Database.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", cfg.Database.Path, err)
	}
	if cfg.Proxy.CACertPath, err = expandTilde(cfg.Proxy.CACertPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in proxy.ca_cert_path '%s': %v.\n", cfg.Proxy.CACertPath, err)
	}
	if cfg.Proxy.CAKeyPath, err = expandTilde(cfg.Proxy.CAKeyPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in proxy.ca_key_path '%s': %v.\n", cfg.Proxy.CAKeyPath, err)
	}
	if cfg.Server.LogPath, err = expandTilde(cfg.Server.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in server.log_path '%s': %v.\n", cfg.Server.LogPath, err)
	}
	if cfg.Proxy.LogPath, err = expandTilde(cfg.Proxy.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in proxy.log_path '%s': %v.\n", cfg.Proxy.LogPath, err)
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	return cfg, usedMsg, nil
}

// Init loads configuration into AppConfig, applies flag overrides and
// re-initializes the global loggers with the final paths.
func Init(cfgFile string, flagAppLogPath, flagProxyLogPath, flagLogLevel string) error {
	cfg, usedMsg, err := Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		return err
	}

	if flagAppLogPath != "" {
		if expanded, err := expandTilde(flagAppLogPath); err == nil {
			cfg.Server.LogPath = expanded
		} else {
			cfg.Server.LogPath = flagAppLogPath
		}
	}
	if flagProxyLogPath != "" {
		if expanded, err := expandTilde(flagProxyLogPath); err == nil {
			cfg.Proxy.LogPath = expanded
		} else {
			cfg.Proxy.LogPath = flagProxyLogPath
		}
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = strings.ToUpper(flagLogLevel)
	}
	AppConfig = cfg

	if err := os.MkdirAll(GetDefaultConfigPaths().ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory: %v\n", err)
	}

	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Proxy.LogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(usedMsg)
	if flagAppLogPath != "" || flagProxyLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}
	if !AppConfig.Proxy.ShareLinks {
		logger.Info("Share-link ingestion on proxied navigations is DISABLED.")
	}
	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}
