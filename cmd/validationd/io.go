package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fyrsmithlabs/validationd/internal/schema"
	"github.com/fyrsmithlabs/validationd/internal/validation"
)

// readInput reads a file argument, or stdin when the argument is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// readMemories parses a JSON array of memory records.
func readMemories(path string) ([]*schema.Memory, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("reading memories: %w", err)
	}
	var mems []*schema.Memory
	if err := json.Unmarshal(data, &mems); err != nil {
		return nil, fmt.Errorf("parsing memories: %w", err)
	}
	return mems, nil
}

// readFeedback parses a JSON array of validation feedback records.
func readFeedback(path string) ([]validation.ValidationFeedback, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("reading feedback: %w", err)
	}
	var feedback []validation.ValidationFeedback
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, fmt.Errorf("parsing feedback: %w", err)
	}
	return feedback, nil
}

// writeJSON pretty-prints v to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
