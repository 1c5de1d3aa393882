package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape. Pointer fields
// distinguish "not set" from zero values; explicit CLI flags always win.
type FileConfig struct {
	Extensions  []string `yaml:"extensions"`
	Patterns    []string `yaml:"patterns"`
	PatternFile *string  `yaml:"pattern_file"`
	MaxDepth    *int     `yaml:"max_depth"`
	Threads     *int     `yaml:"threads"`
	Archives    *bool    `yaml:"archives"`
}

// LoadFileConfig reads a YAML config file from the provided path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// LoadLocalConfig searches the scan root for a config file. A missing file
// is not an error; the returned path is empty then.
func LoadLocalConfig(root string) (FileConfig, string, error) {
	for _, name := range []string{".secretsweep.yml", ".secretsweep.yaml", "secretsweep.yml", "secretsweep.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		fc, err := LoadFileConfig(p)
		if err != nil {
			return FileConfig{}, p, err
		}
		return fc, p, nil
	}
	return FileConfig{}, "", nil
}

// SetFlags records which values the CLI supplied explicitly. File config
// only fills the rest; sentinel comparison would make "unbounded" (-1)
// unreachable from a config file.
type SetFlags struct {
	MaxDepth bool
	Threads  bool
	Archives bool
}

// Apply fills cfg fields the caller left unset.
func (fc FileConfig) Apply(cfg *ScanConfig, set SetFlags) {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = fc.Extensions
	}
	if len(cfg.PatternSources) == 0 && len(fc.Patterns) > 0 {
		cfg.PatternSources = fc.Patterns
	}
	if fc.MaxDepth != nil && !set.MaxDepth {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if fc.Threads != nil && !set.Threads {
		cfg.Threads = *fc.Threads
	}
	if fc.Archives != nil && !set.Archives {
		cfg.Archives = *fc.Archives
	}
}
