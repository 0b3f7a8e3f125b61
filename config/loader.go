package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/createsend/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserHomeDir() (string, error)
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file. Variables already set in the environment win.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (RealFileSystem) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

// Resolver finds the config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
// Empty means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths from opts when set, otherwise the
// first match from the search paths.
func (r *Resolver) ResolveFiles(appName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(r.configSearchPaths(appName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(r.envSearchPaths(appName))
	}
	return resolved
}

func (r *Resolver) configSearchPaths(appName string) []string {
	paths := []string{
		filepath.Join(".", "cmd", appName, "config.yml"),
		filepath.Join("..", "cmd", appName, "config.yml"),
		filepath.Join(".", "config", "config.yml"),
		filepath.Join(".", "config.yml"),
		filepath.Join(".", appName+".yml"),
	}
	if home, err := r.FileSystem.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, "."+appName, "config.yml"))
	}
	return paths
}

func (r *Resolver) envSearchPaths(appName string) []string {
	var paths []string
	for _, name := range []string{".env." + appName, ".env"} {
		paths = append(paths,
			filepath.Join(".", "cmd", appName, name),
			filepath.Join(".", "config", name),
			filepath.Join(".", name),
			filepath.Join("..", name),
		)
	}
	return paths
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds loader dependencies and overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	// ConfigFile is an explicit YAML path. It must exist when set.
	ConfigFile string
	// EnvFile is an explicit .env path. It must exist when set.
	EnvFile string
	// EnvPrefixes limits which environment variables are bound. Empty binds
	// every variable.
	EnvPrefixes []string
	// Defaults are applied below every other source, keyed by dotted path.
	Defaults map[string]any
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefixes binds only environment variables starting with one of
// the given prefixes (e.g. "CREATESEND_").
func WithEnvPrefixes(prefixes ...string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefixes = append(lc.EnvPrefixes, prefixes...) }
}

// WithDefault sets a default value for a dotted key such as
// "createsend.api_endpoint".
func WithDefault(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]any)
		}
		lc.Defaults[key] = value
	}
}

// ErrConfigFileNotFound is returned when an explicit file does not exist.
var ErrConfigFileNotFound = errors.New("config file not found")

// LoadConfig loads configuration for appName into cfg, which must be a
// pointer to a struct with mapstructure tags.
func LoadConfig(appName string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	for _, explicit := range []string{lc.ConfigFile, lc.EnvFile} {
		if explicit != "" && !lc.FileSystem.Exists(explicit) {
			return fmt.Errorf("%w: %s", ErrConfigFileNotFound, explicit)
		}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(appName, lc)
	return load(appName, cfg, files, lc)
}

func load(appName string, cfg any, files ResolvedFiles, lc LoaderConfig) error {
	log := logger.WithComponent("config")
	v := viper.New()

	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("path", files.ConfigFile))
	}

	// .env never overrides variables already present in the environment.
	if files.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.Fields("path", files.EnvFile, logger.FieldError, err.Error()))
		} else {
			log.Debug("env file loaded", logger.Fields("path", files.EnvFile))
		}
	}

	bindEnv(v, os.Environ(), lc.EnvPrefixes)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", appName, err)
	}
	return nil
}

// bindEnv sets every matching KEY=value pair under all the nested key
// shapes it could stand for.
func bindEnv(v *viper.Viper, environ []string, prefixes []string) {
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !hasAnyPrefix(key, prefixes) {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

func hasAnyPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// envKeyVariants lists the dotted keys an environment variable may address.
// Each underscore is either a nesting level or part of a field name:
//
//	CREATESEND_API_KEY -> createsend_api_key, createsend.api.key,
//	                      createsend.api_key, createsend_api.key
//	CREATESEND_RETRY_MAX_ATTEMPTS -> ..., createsend.retry.max_attempts, ...
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants,
			strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"),
			strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."),
		)
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
