// Package config loads and saves the syncinclude configuration.
//
// The configuration lives in a flat file, one "key: value" pair per line,
// in the working directory. Values are taken verbatim after the first colon
// and trimmed; there is no escaping, so marker lines such as "# BEGIN" need
// no quoting.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauern/syncinclude/internal/fragment"
	"github.com/klauern/syncinclude/internal/util"
)

// FileName is the default configuration file name.
const FileName = ".sync_include-config"

// Keys recognized in the configuration file.
const (
	KeyModuleStart = "comment_module_start"
	KeyModuleEnd   = "comment_module_end"
	KeyModuleFile  = "module_file_path"
)

// ErrInvalid is returned when the configuration file is missing, malformed,
// or lacks a required key.
var ErrInvalid = errors.New("configuration is invalid")

// Config is the configuration for a single run.
type Config struct {
	// StartMarker is the line that opens a fragment region.
	StartMarker string `yaml:"comment_module_start" toml:"comment_module_start" json:"comment_module_start"`
	// EndMarker is the line that closes a fragment region.
	EndMarker string `yaml:"comment_module_end" toml:"comment_module_end" json:"comment_module_end"`
	// ModulePath is the canonical module file.
	ModulePath string `yaml:"module_file_path" toml:"module_file_path" json:"module_file_path"`
}

// Markers returns the fragment markers of the configuration.
func (c *Config) Markers() fragment.Markers {
	return fragment.Markers{Start: c.StartMarker, End: c.EndMarker}
}

// ModuleFile returns the module path with a leading ~ expanded.
func (c *Config) ModuleFile() string {
	return util.ExpandPath(c.ModulePath, "")
}

// Load reads the configuration at path and applies environment overrides.
// Every failure to produce a complete configuration wraps ErrInvalid.
func Load(path string) (*Config, error) {
	// #nosec G304 - path is the configuration file chosen by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Parse(f)
	if err != nil {
		return nil, err
	}
	cfg.applyEnvironment()
	return cfg, nil
}

// Parse reads "key: value" lines and validates that every required key is
// present. Unknown keys are ignored; a repeated key keeps its last value.
func Parse(r io.Reader) (*Config, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ln := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		key, value, ok := strings.Cut(ln, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d has no ':' separator", ErrInvalid, lineNo)
		}
		values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	for _, key := range []string{KeyModuleStart, KeyModuleEnd, KeyModuleFile} {
		if _, ok := values[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalid, key)
		}
	}

	cfg := &Config{
		StartMarker: values[KeyModuleStart],
		EndMarker:   values[KeyModuleEnd],
		ModulePath:  values[KeyModuleFile],
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the markers are usable. An empty start marker would
// match every blank line.
func (c *Config) Validate() error {
	if c.StartMarker == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyModuleStart)
	}
	if c.EndMarker == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyModuleEnd)
	}
	return nil
}

// String renders the configuration in file format, without a trailing
// newline.
func (c *Config) String() string {
	return strings.Join([]string{
		KeyModuleStart + ": " + c.StartMarker,
		KeyModuleEnd + ": " + c.EndMarker,
		KeyModuleFile + ": " + c.ModulePath,
	}, "\n")
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	// #nosec G306 - config file should be readable by user
	if err := os.WriteFile(path, []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SYNC_INCLUDE_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SYNC_INCLUDE_MODULE_START"); v != "" {
		c.StartMarker = v
	}
	if v := os.Getenv("SYNC_INCLUDE_MODULE_END"); v != "" {
		c.EndMarker = v
	}
	if v := os.Getenv("SYNC_INCLUDE_MODULE_FILE"); v != "" {
		c.ModulePath = v
	}
}
