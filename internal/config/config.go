// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration. The core conversion code
// never reads process-wide state; a Config (or its sub-structs) is threaded
// explicitly into every component.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File sink settings, handled by lumberjack. Empty LogFile disables
	// the file sink entirely.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ConverterConfig controls conversion behavior.
type ConverterConfig struct {
	// AutoFix enables the XML repair ladder for malformed input. Disabled,
	// any parse failure is fatal immediately.
	AutoFix bool `mapstructure:"auto_fix" yaml:"auto_fix"`
	// DiagramType selects the markup flavor: sequence or flowchart for
	// .uml, class or activity for .puml.
	DiagramType string `mapstructure:"diagram_type" yaml:"diagram_type"`
	// TempDir overrides the location for intermediate artifacts. Empty
	// means the OS default.
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir"`
}

// SetDefaults registers defaults on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "lucidconv")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("converter.auto_fix", true)
	v.SetDefault("converter.diagram_type", "sequence")
}

// Load reads configuration from an optional file plus LUCIDCONV_* env vars
// and unmarshals it into a Config.
func Load(cfgFile string) (*Config, error) {
	v := viper.GetViper()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LUCIDCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
