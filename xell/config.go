package xell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const defaultRecursionLimit = 512

// Config controls an Interpreter. The zero value is usable: New fills in
// defaults for anything left unset.
type Config struct {
	// RecursionLimit bounds the call depth of one call chain.
	RecursionLimit int
	// ModulePaths are searched, in order, after the importing file's
	// directory when resolving bring.
	ModulePaths []string
	Output      io.Writer
	Input       io.Reader
	// CaptureOutput collects print output in memory instead of writing it
	// to Output. Output() returns what was collected.
	CaptureOutput bool
	Logger        *zerolog.Logger
	// SourcePath names the file being run when source is supplied directly.
	SourcePath string
}

// FileConfig is the on-disk YAML form of Config.
type FileConfig struct {
	RecursionLimit int      `yaml:"recursion_limit"`
	ModulePaths    []string `yaml:"module_paths"`
	LogLevel       string   `yaml:"log_level"`
	CaptureOutput  bool     `yaml:"capture_output"`
}

// LoadConfigFile reads a YAML config. Relative module paths are resolved
// against the directory holding the file.
func LoadConfigFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("xell: reading config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("xell: parsing config %s: %w", path, err)
	}
	if fc.RecursionLimit < 0 {
		return FileConfig{}, fmt.Errorf("xell: config %s: recursion_limit must be positive", path)
	}
	if _, err := ParseLogLevel(fc.LogLevel); err != nil {
		return FileConfig{}, fmt.Errorf("xell: config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, dir := range fc.ModulePaths {
		if strings.TrimSpace(dir) == "" {
			return FileConfig{}, fmt.Errorf("xell: config %s: module path cannot be empty", path)
		}
		if !filepath.IsAbs(dir) {
			fc.ModulePaths[i] = filepath.Join(base, dir)
		}
	}
	return fc, nil
}

// Apply copies the file's settings onto cfg. Module paths are appended so
// paths given on the command line are searched first.
func (fc FileConfig) Apply(cfg *Config) {
	if fc.RecursionLimit > 0 {
		cfg.RecursionLimit = fc.RecursionLimit
	}
	cfg.ModulePaths = append(cfg.ModulePaths, fc.ModulePaths...)
	if fc.CaptureOutput {
		cfg.CaptureOutput = true
	}
}

func validateModulePaths(paths []string) error {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("xell: module path cannot be empty")
		}
		stat, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("xell: invalid module path %q: %w", path, err)
		}
		if !stat.IsDir() {
			return fmt.Errorf("xell: module path %q is not a directory", path)
		}
	}
	return nil
}
