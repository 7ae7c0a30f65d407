package config

import (
	"log/slog"
	"time"
)

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

// ModulesConfig controls where and how the loader finds artifacts.
type ModulesConfig struct {
	// Directory is resolved against the working directory when relative.
	Directory string `config:"directory" validate:"required"`
	Extension string `config:"extension" validate:"required,startswith=."`
	Namespace string `config:"namespace"`
	// Rollback disables the modules of a failed load pass again.
	Rollback bool `config:"rollback"`
}

type LoggingConfig struct {
	Level  slog.Level `config:"level"`
	Format string     `config:"format" validate:"oneof=text json pretty"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type MetricsConfig struct {
	Enabled bool `config:"enabled"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	Enabled  bool   `config:"enabled"`
	BasePath string `config:"basePath" validate:"startswith=/"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Modules       ModulesConfig       `config:"modules"`
	Logging       LoggingConfig       `config:"logging"`
	Server        ServerConfig        `config:"server"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}
