package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/validator"
)

type SlogConfig struct {
	Level int `mapstructure:"level" yaml:"level"`
}

type LoggingConfig struct {
	App       SlogConfig `mapstructure:"app"       yaml:"app"`
	Telemetry string     `mapstructure:"telemetry" yaml:"telemetry" validate:"required,oneof=none stdout otlp"`
}

const (
	ProviderStatic = "static"
	ProviderIP     = "ip"
	ProviderNone   = "none"
)

type LocationConfig struct {
	Latitude    *float64      `mapstructure:"latitude"      yaml:"latitude,omitempty"  validate:"required_if=Provider static,omitempty,latitude"`
	Longitude   *float64      `mapstructure:"longitude"     yaml:"longitude,omitempty" validate:"required_if=Provider static,omitempty,longitude"`
	Provider    string        `mapstructure:"provider"      yaml:"provider"            validate:"required,oneof=static ip none"`
	IPLookupURL string        `mapstructure:"ip_lookup_url" yaml:"ip_lookup_url"       validate:"required_if=Provider ip,omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout"       yaml:"-"                   validate:"gte=0"`
	RetryMax    int           `mapstructure:"retry_max"     yaml:"retry_max"           validate:"gte=0"`
}

// yaml.v2 writes durations as nanoseconds; viper reads "10s" just as well
func (c LocationConfig) MarshalYAML() (any, error) {
	type plain LocationConfig
	return struct {
		plain   `yaml:",inline"`
		Timeout string `yaml:"timeout"`
	}{plain(c), c.Timeout.String()}, nil
}

type PreviewConfig struct {
	// Longest preview side in pixels; 0 keeps the original image
	MaxDimension int `mapstructure:"max_dimension" yaml:"max_dimension" validate:"gte=0"`
}

// See `hydrosmart config init` for an example config
type Config struct {
	Logging  *LoggingConfig  `mapstructure:"logging"  yaml:"logging"  validate:"required"`
	Location *LocationConfig `mapstructure:"location" yaml:"location" validate:"required"`
	Preview  *PreviewConfig  `mapstructure:"preview"  yaml:"preview"  validate:"required"`
}

const (
	AppLogLevel         string = "logging.app.level"
	EnvPrefix           string = "hydrosmart"
	LocationIPLookupURL string = "location.ip_lookup_url"
	LocationLatitude    string = "location.latitude"
	LocationLongitude   string = "location.longitude"
	LocationProvider    string = "location.provider"
	LocationRetryMax    string = "location.retry_max"
	LocationTimeout     string = "location.timeout"
	PreviewMaxDimension string = "preview.max_dimension"
	Telemetry           string = "logging.telemetry"
)

const DefaultLocateTimeout = 10 * time.Second

func setDefaults(v *viper.Viper) {
	v.SetDefault(AppLogLevel, int(slog.LevelInfo))
	v.SetDefault(Telemetry, "none")
	v.SetDefault(LocationProvider, ProviderIP)
	v.SetDefault(LocationIPLookupURL, geo.DefaultIPLookupURL)
	v.SetDefault(LocationTimeout, DefaultLocateTimeout)
	v.SetDefault(LocationRetryMax, 2)
	v.SetDefault(PreviewMaxDimension, 1024)
}

// Config holding only the defaults, used to seed a config file
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		// defaults are static; failing here is a programming error
		panic(err)
	}
	return &c
}

var configReady = false
var config Config

// Loads the config once per process. file overrides the search path when set.
func GetConfig(file string) (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}

	c, err := Load(file)
	if err != nil {
		return nil, err
	}

	config = *c
	configReady = true
	return &config, nil
}

// Reads defaults, the config file and HYDROSMART_* environment variables
func Load(file string) (*Config, error) {
	logger.Logger.Info("loading config", "file", file)

	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("hydrosmart")
		v.AddConfigPath("/etc/hydrosmart/")
		v.AddConfigPath("$HOME/.config/hydrosmart/")
		v.AddConfigPath(".")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// keys without a default are only seen by Unmarshal when bound
	for _, key := range []string{LocationLatitude, LocationLongitude} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var c Config
	err = v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&c)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
