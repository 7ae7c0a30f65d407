package config

import (
	"context"
	"maps"
)

// Defaults returns the source every configuration chain starts from.
func Defaults() ConfigSource {
	return &StaticSource{SourceName: "defaults", Data: map[string]any{
		"app": map[string]any{
			"name":    "fracton",
			"version": "dev",
		},
		"modules": map[string]any{
			"directory": "modules",
			"extension": ".so",
			"namespace": "modules/",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"server": map[string]any{
			"addr":         ":8080",
			"readTimeout":  "5s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
		},
		"actuator": map[string]any{
			"enabled":  true,
			"basePath": "/actuator",
		},
		"observability": map[string]any{
			"metrics": map[string]any{"enabled": true},
		},
	}}
}

// StaticSource serves a fixed map. It never changes.
type StaticSource struct {
	SourceName string
	Data       map[string]any
}

func (s *StaticSource) Name() string { return s.SourceName }

func (s *StaticSource) Load(context.Context) (map[string]any, error) {
	return cloneMap(s.Data), nil
}

func (s *StaticSource) Watch(context.Context, chan<- Event) error { return nil }

func cloneMap(in map[string]any) map[string]any {
	out := maps.Clone(in)
	for k, v := range out {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
		}
	}
	return out
}
