package console

import (
	"context"
	"fmt"
	"os"
)

// Files stores savegames on the local file system.
type Files struct{}

func (Files) ReadFile(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func (Files) WriteFile(_ context.Context, name string, data []byte) error {
	if err := os.WriteFile(name, data, 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
