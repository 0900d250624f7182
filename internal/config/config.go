/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type CanvasConfig struct {
	Size         float64 `yaml:"size"`     // drawing surface edge length
	MinSize      float64 `yaml:"min_size"` // smallest width/height a resize may produce
	EdgeHandle   float64 `yaml:"edge_handle"`
	CornerHandle float64 `yaml:"corner_handle"`
	AnchorRadius float64 `yaml:"anchor_radius"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
	Server        ServerConfig  `yaml:"server"`
	SeedFile      string        `yaml:"seed_file,omitempty"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{Size: 500, MinSize: 10, EdgeHandle: 6, CornerHandle: 8, AnchorRadius: 5},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Server:        ServerConfig{Addr: ":8080", AllowedOrigins: []string{"localhost:*", "127.0.0.1:*"}},
	}
}

// EnvPrefix is prepended to every override variable name.
const EnvPrefix = "RCV"

// Env var names used as overrides.
const (
	EnvConfigPath   = "RCV_CONFIG"
	EnvCanvasSize   = "RCV_CANVAS_SIZE"
	EnvMinSize      = "RCV_MIN_SIZE"
	EnvEdgeHandle   = "RCV_EDGE_HANDLE"
	EnvCornerHandle = "RCV_CORNER_HANDLE"
	EnvAnchorRadius = "RCV_ANCHOR_RADIUS"
	EnvServerAddr   = "RCV_ADDR"
	EnvOrigins      = "RCV_ALLOWED_ORIGINS"
	EnvSeedFile     = "RCV_SEED_FILE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "RCV_LOG_LEVEL"
	EnvLogFormat = "RCV_LOG_FORMAT"
	EnvLogSource = "RCV_LOG_SOURCE"
	EnvLogFile   = "RCV_LOG_FILE"
)

// envOverrides mirrors the overridable fields. Pointers stay nil unless the
// variable is set, so an unset variable never clobbers the file value. Names
// come from split_words (CanvasSize -> RCV_CANVAS_SIZE).
type envOverrides struct {
	CanvasSize     *float64 `split_words:"true"`
	MinSize        *float64 `split_words:"true"`
	EdgeHandle     *float64 `split_words:"true"`
	CornerHandle   *float64 `split_words:"true"`
	AnchorRadius   *float64 `split_words:"true"`
	Addr           *string  `split_words:"true"`
	AllowedOrigins []string `split_words:"true"`
	SeedFile       *string  `split_words:"true"`
	LogLevel       *string  `split_words:"true"`
	LogFormat      *string  `split_words:"true"`
	LogSource      *bool    `split_words:"true"`
	LogFile        *string  `split_words:"true"`
}

// ConfigPath returns the per-user config file path. RCV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ResizeCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ResizeCanvas")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "resizecanvas")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "resizecanvas")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// canvas: only positive values replace defaults
	mergePositive(&dst.Canvas.Size, src.Canvas.Size)
	mergePositive(&dst.Canvas.MinSize, src.Canvas.MinSize)
	mergePositive(&dst.Canvas.EdgeHandle, src.Canvas.EdgeHandle)
	mergePositive(&dst.Canvas.CornerHandle, src.Canvas.CornerHandle)
	mergePositive(&dst.Canvas.AnchorRadius, src.Canvas.AnchorRadius)
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// server
	if strings.TrimSpace(src.Server.Addr) != "" {
		dst.Server.Addr = strings.TrimSpace(src.Server.Addr)
	}
	if len(src.Server.AllowedOrigins) > 0 {
		dst.Server.AllowedOrigins = append([]string(nil), src.Server.AllowedOrigins...)
	}
	if strings.TrimSpace(src.SeedFile) != "" {
		dst.SeedFile = strings.TrimSpace(src.SeedFile)
	}
}

func mergePositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	setPositive := func(dst *float64, v *float64) {
		if v != nil && *v > 0 {
			*dst = *v
		}
	}
	setPositive(&cfg.Canvas.Size, env.CanvasSize)
	setPositive(&cfg.Canvas.MinSize, env.MinSize)
	setPositive(&cfg.Canvas.EdgeHandle, env.EdgeHandle)
	setPositive(&cfg.Canvas.CornerHandle, env.CornerHandle)
	setPositive(&cfg.Canvas.AnchorRadius, env.AnchorRadius)
	if env.Addr != nil && strings.TrimSpace(*env.Addr) != "" {
		cfg.Server.Addr = strings.TrimSpace(*env.Addr)
	}
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	if env.SeedFile != nil {
		cfg.SeedFile = strings.TrimSpace(*env.SeedFile)
	}
	// logging overrides
	if env.LogLevel != nil && *env.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*env.LogLevel))
	}
	if env.LogFormat != nil && *env.LogFormat != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*env.LogFormat))
	}
	if env.LogSource != nil {
		cfg.Logging.Source = *env.LogSource
	}
	if env.LogFile != nil && *env.LogFile != "" {
		cfg.Logging.File = *env.LogFile
	}
	return nil
}

var overrideKeys = map[string]string{
	"canvas.size":            EnvCanvasSize,
	"canvas.min_size":        EnvMinSize,
	"canvas.edge_handle":     EnvEdgeHandle,
	"canvas.corner_handle":   EnvCornerHandle,
	"canvas.anchor_radius":   EnvAnchorRadius,
	"server.addr":            EnvServerAddr,
	"server.allowed_origins": EnvOrigins,
	"seed_file":              EnvSeedFile,
	"logging.level":          EnvLogLevel,
	"logging.format":         EnvLogFormat,
	"logging.source":         EnvLogSource,
	"logging.file":           EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := overrideKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
