package labels

import (
	"fmt"
	"os"

	"github.com/menta2k/polycrop/pkg/types"
)

// ReadFile parses the label file at path.
func ReadFile(path string) ([]types.LabeledObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	objects, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return objects, nil
}

// WriteFile serializes objects to path, replacing any existing file.
func WriteFile(path string, objects []types.LabeledObject) error {
	if err := os.WriteFile(path, []byte(Serialize(objects)), 0o644); err != nil {
		return fmt.Errorf("failed to write label file: %w", err)
	}
	return nil
}
