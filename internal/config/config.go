package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/UnknownOlympus/hestia/internal/models"
)

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the public API server configuration.
	GRPC       GRPCConfig       `yaml:"grpc"`       // GRPC holds the gRPC server configuration.
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the metrics and health server configuration.
	Directory  DirectoryConfig  `yaml:"directory"`  // Directory holds the employee directory policy.
}

// HTTPConfig struct holds the configuration of the REST, GraphQL and hub server.
type HTTPConfig struct {
	Address           string        `yaml:"address"`             // Address is the listen address, e.g. `:8080`.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"` // ReadHeaderTimeout is the time allowed to read request headers.
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`    // ShutdownTimeout bounds graceful shutdown of every server.
}

// GRPCConfig struct holds the configuration of the gRPC server.
type GRPCConfig struct {
	Address string `yaml:"address"` // Address is the listen address, e.g. `:9090`.
}

// MonitoringConfig struct holds the configuration of the metrics and health server.
type MonitoringConfig struct {
	Port int `yaml:"port"` // Port serves /metrics and /healthz.
}

// DirectoryConfig struct holds the employee directory policy.
type DirectoryConfig struct {
	RejectDuplicateIDs bool              `yaml:"reject_duplicate_ids"` // RejectDuplicateIDs makes Create fail on an existing id.
	Seed               []models.Employee `yaml:"seed"`                 // Seed employees loaded at startup.
}

const envPrefix = "HESTIA"

var ErrInvalidConfig = errors.New("invalid configuration")

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.read_header_timeout", "15s")
	v.SetDefault("http.shutdown_timeout", "30s")
	v.SetDefault("grpc.address", ":9090")
	v.SetDefault("monitoring.port", 8081) //nolint: mnd // default port
	v.SetDefault("directory.reject_duplicate_ids", false)
}

// Load reads the configuration from HESTIA_* environment variables and, when
// CONFIG_PATH is set, from that YAML file. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file does not exist: %s", ErrInvalidConfig, configPath)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	readHeaderTimeout, err := duration(v, "http.read_header_timeout")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := duration(v, "http.shutdown_timeout")
	if err != nil {
		return nil, err
	}

	var seed []models.Employee
	if err = v.UnmarshalKey("directory.seed", &seed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse directory seed: %w", ErrInvalidConfig, err)
	}
	rejectDups := v.GetBool("directory.reject_duplicate_ids")
	if rejectDups {
		if err = uniqueSeedIDs(seed); err != nil {
			return nil, err
		}
	}

	return &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Address:           v.GetString("http.address"),
			ReadHeaderTimeout: readHeaderTimeout,
			ShutdownTimeout:   shutdownTimeout,
		},
		GRPC: GRPCConfig{
			Address: v.GetString("grpc.address"),
		},
		Monitoring: MonitoringConfig{
			Port: v.GetInt("monitoring.port"),
		},
		Directory: DirectoryConfig{
			RejectDuplicateIDs: rejectDups,
			Seed:               seed,
		},
	}, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse %s from configuration", ErrInvalidConfig, key)
	}

	return value, nil
}

// uniqueSeedIDs keeps the seed consistent with the duplicate id policy.
func uniqueSeedIDs(seed []models.Employee) error {
	seen := make(map[int]struct{}, len(seed))
	for _, employee := range seed {
		if _, ok := seen[employee.ID]; ok {
			return fmt.Errorf("%w: directory seed repeats employee id %d", ErrInvalidConfig, employee.ID)
		}
		seen[employee.ID] = struct{}{}
	}

	return nil
}
