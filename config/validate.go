package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate checks the configuration for errors. All problems are reported
// together.
func Validate(cfg *Config) error {
	var errs []string

	if _, err := logrus.ParseLevel(cfg.General.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("general.log_level: %v", err))
	}

	if cfg.General.StopTime < 0 {
		errs = append(errs, "general.stop_time: must not be negative")
	}

	if cfg.Monitoring.Port < 0 || cfg.Monitoring.Port > 65535 {
		errs = append(errs, fmt.Sprintf(
			"monitoring.port: must be between 0 and 65535, got %d",
			cfg.Monitoring.Port))
	}

	if len(cfg.Hosts) == 0 {
		errs = append(errs, "hosts: at least one host must be defined")
	}

	for _, name := range cfg.HostNames() {
		errs = append(errs, validateHost(name, cfg.Hosts[name])...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

func validateHost(name string, host HostConfig) []string {
	var errs []string

	if strings.ContainsAny(name, " \t\n./\\") {
		errs = append(errs, fmt.Sprintf(
			"hosts.%s: name cannot contain whitespace, dots or path separators",
			name))
	}

	for i, proc := range host.Processes {
		field := fmt.Sprintf("hosts.%s.processes[%d]", name, i)

		if proc.Plugin == "" {
			errs = append(errs, field+".plugin: plugin name is required")
		}

		if proc.Path == "" {
			errs = append(errs, field+".path: plugin path is required")
		}

		if proc.StartTime < 0 || proc.StopTime < 0 {
			errs = append(errs, field+": times must not be negative")
		}

		if proc.StopTime > 0 && proc.StopTime <= proc.StartTime {
			logrus.Warnf("%s: stop_time is not after start_time, "+
				"the process will not be started", field)
		}
	}

	return errs
}
