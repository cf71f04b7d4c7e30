// Package config defines the application configuration and includes functions
// for loading it and the tenant data files the CLI reads.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for site-payouts. It is loaded once at
// startup and passed to whatever needs it.
type Configuration struct {
	Logging  LoggingConfig     `yaml:"logging,omitempty" mapstructure:"logging"`
	Output   OutputConfig      `yaml:"output,omitempty" mapstructure:"output"`
	Defaults allocation.Config `yaml:"defaults,omitempty" mapstructure:"defaults"`
	Limits   LimitsConfig      `yaml:"limits,omitempty" mapstructure:"limits"`
	Store    StoreConfig       `yaml:"store,omitempty" mapstructure:"store"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// LimitsConfig caps what callers may hand to the engine.
type LimitsConfig struct {
	MaxMembers    int     `yaml:"maxMembers,omitempty" mapstructure:"maxMembers"`
	MaxSites      int     `yaml:"maxSites,omitempty" mapstructure:"maxSites"`
	MaxLevelValue float64 `yaml:"maxLevelValue,omitempty" mapstructure:"maxLevelValue"`
}

// StoreConfig selects and configures the tenant data backend.
type StoreConfig struct {
	Type          string        `yaml:"type,omitempty" mapstructure:"type"` // memory, sqlite, postgres, redis
	DSN           string        `yaml:"dsn,omitempty" mapstructure:"dsn"`
	RedisAddr     string        `yaml:"redisAddr,omitempty" mapstructure:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword,omitempty" mapstructure:"redisPassword"`
	RedisDB       int           `yaml:"redisDB,omitempty" mapstructure:"redisDB"`
	TTL           time.Duration `yaml:"ttl,omitempty" mapstructure:"ttl"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

// Default returns the built-in configuration with PAYOUTS_* environment
// overrides applied. It is what the binaries use when no file is given.
func Default() (*Configuration, error) {
	return decode(newViper())
}

// Builtin returns the built-in configuration, ignoring the environment.
func Builtin() *Configuration {
	v := viper.New()
	setDefaults(v)
	conf, err := decode(v)
	if err != nil {
		// unreachable: defaults alone always decode
		conf = &Configuration{}
		conf.applyDefaults()
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("limits.maxMembers", constants.DefaultMaxMembers)
	v.SetDefault("limits.maxSites", constants.DefaultMaxSites)
	v.SetDefault("limits.maxLevelValue", constants.DefaultMaxLevelValue)
	v.SetDefault("store.type", constants.StoreSQLite)
	v.SetDefault("store.dsn", constants.DefaultSQLiteDSN)
	v.SetDefault("store.redisAddr", "localhost:6379")
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

// applyDefaults fills the tenant defaults left unset by the file.
func (c *Configuration) applyDefaults() {
	base := allocation.DefaultConfig()
	if c.Defaults.LevelValues == nil {
		c.Defaults.LevelValues = base.LevelValues
	}
	if c.Defaults.SalvagerPercent == nil {
		c.Defaults.SalvagerPercent = base.SalvagerPercent
	}
	if c.Defaults.Currency == "" {
		c.Defaults.Currency = base.Currency
	}
	if c.Defaults.AutoCalculate == nil {
		c.Defaults.AutoCalculate = base.AutoCalculate
	}
	c.Store.Type = strings.ToLower(strings.TrimSpace(c.Store.Type))
}

// NewTenantData returns the data a tenant starts with before saving anything.
func (c *Configuration) NewTenantData() allocation.Data {
	return allocation.Data{
		Config:  c.Defaults.Clone(),
		Members: []allocation.Member{},
		Sites:   []allocation.Site{},
	}
}

// Engine returns an allocation engine honoring the configured limits.
func (c *Configuration) Engine() allocation.Engine {
	return allocation.New(allocation.WithMaxLevelValue(c.Limits.MaxLevelValue))
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	warnings = append(warnings, validation.ValidateLevelValues(c.Defaults.LevelValues, c.Limits.MaxLevelValue)...)
	if c.Defaults.SalvagerPercent != nil {
		if w := validation.ValidateSalvagerPercent(*c.Defaults.SalvagerPercent); w != "" {
			warnings = append(warnings, w)
		}
	}
	if c.Limits.MaxMembers <= 0 {
		warnings = append(warnings, "limits.maxMembers is not positive - roster size is unlimited")
	}
	if c.Limits.MaxSites <= 0 {
		warnings = append(warnings, "limits.maxSites is not positive - site count is unlimited")
	}
	if err := validation.ValidateStoreType(c.Store.Type); err != nil {
		warnings = append(warnings, err.Error())
	}

	return warnings
}
