package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown export format")

// formatOf maps a file name to an encoding; a trailing .zst adds zstd.
//
//	out.json  out.yaml  out.yml  out.json.zst  out.yaml.zst
func formatOf(path string) (format string, compressed bool, err error) {
	name := strings.ToLower(filepath.Base(path))
	if trimmed, ok := strings.CutSuffix(name, ".zst"); ok {
		name, compressed = trimmed, true
	}
	switch filepath.Ext(name) {
	case ".json":
		return "json", compressed, nil
	case ".yaml", ".yml":
		return "yaml", compressed, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Encode writes v to w as "json" or "yaml".
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Export writes v to path in the format its extension names.
func Export(path string, v any) error {
	format, compressed, err := formatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if !compressed {
		if err := Encode(f, format, v); err != nil {
			return fmt.Errorf("export: encode %s: %w", path, err)
		}
		return f.Close()
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("export: create zstd writer: %w", err)
	}
	if err := Encode(zw, format, v); err != nil {
		_ = zw.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close zstd writer: %w", err)
	}
	return f.Close()
}

// Import reads a file written by Export back into v.
func Import(path string, v any) error {
	format, compressed, err := formatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if compressed {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("import: zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	switch format {
	case "json":
		return json.NewDecoder(r).Decode(v)
	default:
		return yaml.NewDecoder(r).Decode(v)
	}
}
