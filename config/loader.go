package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied after load.
const (
	DefaultPort           = 8181
	DefaultReadIntervalMS = 60000
	DefaultTimeoutMS      = 30000
	DefaultGraceSeconds   = 60
	DefaultDepartureLimit = 8
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := ParseAppConfig(data)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// ParseAppConfig unmarshals, validates and applies defaults to raw YAML config.
func ParseAppConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return nil, err
	}
	if err := v.Struct(cfg.GTFSRT); err != nil {
		return nil, err
	}
	for _, view := range cfg.Views {
		if err := v.Struct(view); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.GTFSRT.ReadIntervalMS == 0 {
		cfg.GTFSRT.ReadIntervalMS = DefaultReadIntervalMS
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Engine.GraceSeconds == 0 {
		cfg.Engine.GraceSeconds = DefaultGraceSeconds
	}
	for i := range cfg.Views {
		if cfg.Views[i].DepartureLimit == 0 {
			cfg.Views[i].DepartureLimit = DefaultDepartureLimit
		}
	}
}
