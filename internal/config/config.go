// Package config loads the project configuration.
//
// Configuration is optional. The first of .loadout.yaml, .loadout.yml and
// .loadout.toml found in the project root is read over the defaults, then
// LOADOUT_* environment variables are applied on top. Unknown keys in
// either file format are rejected so typos surface immediately.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/loadout/internal/domain"
)

// Environment variables that override file values.
const (
	EnvFragmentsDir       = "LOADOUT_FRAGMENTS_DIR"
	EnvGlobalFragmentsDir = "LOADOUT_GLOBAL_FRAGMENTS_DIR"
	EnvOutputDir          = "LOADOUT_OUTPUT_DIR"
	EnvOutputFiles        = "LOADOUT_OUTPUT_FILES"
	EnvIncludeMetadata    = "LOADOUT_INCLUDE_METADATA"
	EnvLedger             = "LOADOUT_LEDGER"
)

// FileNames lists the config files discovered in the project root, in
// priority order.
var FileNames = []string{".loadout.yaml", ".loadout.yml", ".loadout.toml"}

// Config is the resolved project configuration. Relative paths are
// relative to the project root.
type Config struct {
	FragmentsDir       string   `yaml:"fragments_dir" toml:"fragments_dir"`
	GlobalFragmentsDir string   `yaml:"global_fragments_dir" toml:"global_fragments_dir"`
	LoadoutsDir        string   `yaml:"loadouts_dir" toml:"loadouts_dir"`
	StateFile          string   `yaml:"state_file" toml:"state_file"`
	OutputDir          string   `yaml:"output_dir" toml:"output_dir"`
	OutputFiles        []string `yaml:"output_files" toml:"output_files"`
	IncludeMetadata    bool     `yaml:"include_metadata" toml:"include_metadata"`

	// Ledger is the activation history database. Empty disables it.
	Ledger string `yaml:"ledger" toml:"ledger"`

	// Source is the file the values were read from, or "" for defaults.
	Source string `yaml:"-" toml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FragmentsDir:       "fragments",
		GlobalFragmentsDir: "~/.loadout/fragments",
		LoadoutsDir:        ".loadouts",
		StateFile:          ".loadout.json",
		OutputDir:          ".",
		OutputFiles:        []string{"CLAUDE.md", "AGENTS.md"},
		Ledger:             filepath.Join(".loadout", "history.db"),
	}
}

// Load resolves the configuration for the project at root. When path is
// non-empty that file is read instead of discovering one; it must exist.
func Load(root, path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = discover(root)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Source = path
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	cfg.OutputFiles = normalizeList(cfg.OutputFiles)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func discover(root string) string {
	for _, name := range FileNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func decodeFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return domain.ConfigurationError("failed to parse config "+path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return domain.ConfigurationError("failed to parse config "+path,
				fmt.Errorf("unknown key %q", undecoded[0].String()))
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigurationError("failed to read config "+path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil {
		return domain.ConfigurationError("failed to parse config "+path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v, ok := lookup(EnvFragmentsDir); ok {
		cfg.FragmentsDir = v
	}
	if v, ok := lookup(EnvGlobalFragmentsDir); ok {
		cfg.GlobalFragmentsDir = v
	}
	if v, ok := lookup(EnvOutputDir); ok {
		cfg.OutputDir = v
	}
	if v, ok := lookup(EnvOutputFiles); ok {
		cfg.OutputFiles = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvIncludeMetadata); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.ConfigurationError(EnvIncludeMetadata+" must be a boolean", err)
		}
		cfg.IncludeMetadata = b
	}
	if v, ok := lookup(EnvLedger); ok {
		switch strings.ToLower(v) {
		case "off", "none", "disabled", "false":
			cfg.Ledger = ""
		default:
			cfg.Ledger = v
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Validate rejects configurations no command can work with.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"fragments_dir", c.FragmentsDir},
		{"loadouts_dir", c.LoadoutsDir},
		{"state_file", c.StateFile},
		{"output_dir", c.OutputDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domain.ConfigurationError(r.key+" cannot be blank", nil)
		}
	}
	if len(c.OutputFiles) == 0 {
		return domain.ConfigurationError("output_files must list at least one file", nil)
	}
	return nil
}

// Paths are the configured locations resolved against a project root.
type Paths struct {
	Root         string
	FragmentsDir string
	GlobalDir    string
	LoadoutsDir  string
	StateFile    string
	OutputFiles  []string
	Ledger       string
}

// Resolve joins every relative location with root. GlobalDir keeps a
// leading "~/" for the fragment store to expand.
func (c Config) Resolve(root string) Paths {
	outDir := join(root, c.OutputDir)
	outputs := make([]string, 0, len(c.OutputFiles))
	for _, f := range c.OutputFiles {
		outputs = append(outputs, join(outDir, f))
	}
	p := Paths{
		Root:         root,
		FragmentsDir: c.FragmentsDir,
		GlobalDir:    c.GlobalFragmentsDir,
		LoadoutsDir:  join(root, c.LoadoutsDir),
		StateFile:    join(root, c.StateFile),
		OutputFiles:  outputs,
	}
	if c.Ledger != "" {
		p.Ledger = join(root, c.Ledger)
	}
	return p
}

func join(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
