package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// FileConfig holds the subset of Options a `.prqlc.yaml` file can default,
// the same role the teacher's snapsql.yaml plays for its own Config, here
// trimmed to three of Compile's Options fields (spec.md §6.1; the ignored
// Color field is left out) rather than the teacher's much larger
// generation/schema surface.
type FileConfig struct {
	Target           string `yaml:"target"`
	Format           *bool  `yaml:"format"`
	SignatureComment *bool  `yaml:"signature_comment"`
}

// loadFileConfig reads .prqlc.yaml from the current directory if present;
// a missing file is not an error, the same fallback-to-defaults behaviour
// the teacher's LoadConfig uses for a missing snapsql.yaml.
func loadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads a .env file from the current directory if present, the
// same optional-load behaviour as the teacher's cmd/snapsql/utils.go.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}

	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	return nil
}
