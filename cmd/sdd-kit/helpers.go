package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

// withEngine builds an engine on the resolved project root, runs fn and
// closes the engine afterwards.
func withEngine(fn func(eng *engine.Engine) error) error {
	root, err := resolveProjectRoot()
	if err != nil {
		return err
	}
	eng, err := engine.New(engine.Options{ProjectRoot: root})
	if err != nil {
		return err
	}
	defer eng.Close()
	return fn(eng)
}

// printResult emits v as indented JSON when --json is set, otherwise
// runs the human-readable printer.
func printResult(v any, human func()) error {
	if flagJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	human()
	return nil
}

// printStatus prints a colored status marker line.
func printStatus(marker, message string, attr color.Attribute) {
	color.New(attr).Fprintf(os.Stdout, "%s %s\n", marker, message)
}

// readInputFile loads a JSON payload from --input, or from stdin when
// the flag is "-".
func readInputFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
