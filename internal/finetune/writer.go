package finetune

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// record is one JSONL line of the exported dataset.
type record struct {
	Messages []ChatMessage `json:"messages"`
}

// WriteJSONL writes one conversation per line to path, creating parent
// directories as needed. The file is written atomically via a rename.
func WriteJSONL(path string, conversations ...[]ChatMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create dataset temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := bufio.NewWriter(tmp)
	encoder := json.NewEncoder(writer)
	for _, conversation := range conversations {
		if err := encoder.Encode(record{Messages: conversation}); err != nil {
			tmp.Close()
			return fmt.Errorf("encode conversation: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish dataset: %w", err)
	}
	return nil
}
