package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadJSON decodes a family from r.
//
// Both the canonical shape and the legacy shapes are accepted: if the
// document uses any legacy field (see [IsLegacyJSON]) it is routed through
// [ReadLegacyJSON], otherwise it is decoded directly into a [Family].
//
// ReadJSON does not validate the records; call [Family.Validate] or let the
// builder do it.
func ReadJSON(r io.Reader) (*Family, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if IsLegacyJSON(data) {
		return ReadLegacyJSON(data)
	}
	var f Family
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// ReadYAML decodes a canonical family from YAML.
func ReadYAML(r io.Reader) (*Family, error) {
	var f Family
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &f, nil
}

// ReadFile reads a family from path, choosing the decoder by extension
// (.yaml/.yml for YAML, anything else as JSON).
func ReadFile(path string) (*Family, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var fam *Family
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		fam, err = ReadYAML(f)
	default:
		fam, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fam.Name == "" {
		fam.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return fam, nil
}

// Marshal encodes f as canonical JSON. Map-free structs make the encoding
// deterministic, so the bytes are suitable for content hashing.
func Marshal(f *Family) ([]byte, error) {
	return json.Marshal(f)
}

// WriteJSON writes f to w as indented canonical JSON.
func WriteJSON(w io.Writer, f *Family) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes f to path as canonical JSON, or YAML for .yaml/.yml paths.
func WriteFile(path string, f *Family) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return WriteJSON(out, f)
	}
}
