// Package config loads simulation configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/vproc/sim"
)

// Errors returned by Load and Parse.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Default values applied by Parse.
const (
	DefaultFrequencyKHz = 2_000_000
	DefaultLogLevel     = "info"
)

// Config is the top-level simulation configuration.
type Config struct {
	General    GeneralConfig         `yaml:"general"`
	CPU        CPUConfig             `yaml:"cpu"`
	Recording  RecordingConfig       `yaml:"recording"`
	Monitoring MonitoringConfig      `yaml:"monitoring"`
	Hosts      map[string]HostConfig `yaml:"hosts"`
}

// GeneralConfig holds settings of the whole run.
type GeneralConfig struct {
	StopTime           Duration `yaml:"stop_time"`
	HeartbeatInterval  Duration `yaml:"heartbeat_interval"`
	LogLevel           string   `yaml:"log_level"`
	PluginOutputDir    string   `yaml:"plugin_output_dir"`
	PreloadShim        string   `yaml:"preload_shim"`
	EnvFile            string   `yaml:"env_file"`
	NaiveArgumentSplit bool     `yaml:"naive_argument_split"`
	ParallelIDs        bool     `yaml:"parallel_ids"`
	LogEvents          bool     `yaml:"log_events"`

	// Env is filled from EnvFile.
	Env map[string]string `yaml:"-"`
}

// CPUConfig sets the CPU model every host uses unless it overrides it.
type CPUConfig struct {
	FrequencyKHz    uint64   `yaml:"frequency_khz"`
	RawFrequencyKHz uint64   `yaml:"raw_frequency_khz"`
	Threshold       Duration `yaml:"threshold"`
	Precision       Duration `yaml:"precision"`
}

// RecordingConfig tells where lifecycle records go. An empty path disables
// recording.
type RecordingConfig struct {
	Path string `yaml:"path"`
}

// MonitoringConfig sets up the HTTP monitor.
type MonitoringConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// HostConfig describes one simulated host.
type HostConfig struct {
	FrequencyKHz uint64            `yaml:"frequency_khz"`
	Env          map[string]string `yaml:"env"`
	EnvFile      string            `yaml:"env_file"`
	Processes    []ProcessConfig   `yaml:"processes"`
}

// ProcessConfig describes one process of a host.
type ProcessConfig struct {
	Plugin      string            `yaml:"plugin"`
	Path        string            `yaml:"path"`
	PreloadName string            `yaml:"preload_name"`
	PreloadPath string            `yaml:"preload_path"`
	Args        string            `yaml:"args"`
	StartTime   Duration          `yaml:"start_time"`
	StopTime    Duration          `yaml:"stop_time"`
	Env         map[string]string `yaml:"env"`
	EnvFile     string            `yaml:"env_file"`
}

// Duration is a time.Duration written as a Go duration string, such as
// "1.5s", or as a number of nanoseconds.
type Duration time.Duration

// UnmarshalYAML parses a duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string or integer", value.Line)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// VTime converts the duration into virtual time.
func (d Duration) VTime() sim.VTime {
	if d <= 0 {
		return 0
	}

	return sim.VTime(d)
}

// Load reads and parses a configuration file. Relative env files are
// resolved against the directory of the file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return nil, fmt.Errorf("checking config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data, filepath.Dir(path))
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvFiles(&cfg, baseDir); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = DefaultLogLevel
	}

	if cfg.CPU.FrequencyKHz == 0 {
		cfg.CPU.FrequencyKHz = DefaultFrequencyKHz
	}
}

func loadEnvFiles(cfg *Config, baseDir string) error {
	var err error

	cfg.General.Env, err = LoadEnvFile(resolvePath(cfg.General.EnvFile, baseDir))
	if err != nil {
		return fmt.Errorf("loading global env file: %w", err)
	}

	for _, name := range cfg.HostNames() {
		host := cfg.Hosts[name]

		fileEnv, err := LoadEnvFile(resolvePath(host.EnvFile, baseDir))
		if err != nil {
			return fmt.Errorf("loading env file of host %s: %w", name, err)
		}

		host.Env = MergeEnv(fileEnv, host.Env)

		for i := range host.Processes {
			proc := &host.Processes[i]

			procEnv, err := LoadEnvFile(resolvePath(proc.EnvFile, baseDir))
			if err != nil {
				return fmt.Errorf("loading env file of %s.%s: %w",
					name, proc.Plugin, err)
			}

			proc.Env = MergeEnv(procEnv, proc.Env)
		}

		cfg.Hosts[name] = host
	}

	return nil
}

// HostNames returns the names of the hosts in order.
func (c *Config) HostNames() []string {
	names := make([]string, 0, len(c.Hosts))
	for name := range c.Hosts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func resolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}

	return filepath.Join(baseDir, path)
}
