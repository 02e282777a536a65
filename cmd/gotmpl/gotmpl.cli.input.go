package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadData parses render data from an inline JSON string or a data file.
// Files ending in .yaml or .yml are parsed as YAML, everything else as
// JSON. No data yields an empty map.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		ext := filepath.Ext(filePath)
		if ext == DataFileExtYAML || ext == DataFileExtYML {
			var result map[string]any
			if err := yaml.Unmarshal(data, &result); err != nil {
				return nil, err
			}
			return result, nil
		}

		var result map[string]any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}

	if jsonStr != "" {
		var result map[string]any
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return nil, err
		}
		return result, nil
	}

	return make(map[string]any), nil
}
