package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveThreshold rewrites the top-level threshold key in the config file.
// Comments and formatting in other sections are preserved by editing the
// yaml.Node tree instead of re-marshaling a Config.
func SaveThreshold(configPath string, threshold float64) error {
	if threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", threshold)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	value := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: strconv.FormatFloat(threshold, 'f', -1, 64),
	}
	if err := setTopLevel(&doc, "threshold", value); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// setTopLevel replaces key in the document's root mapping, creating the
// document or the key when missing.
func setTopLevel(doc *yaml.Node, key string, value *yaml.Node) error {
	if doc.Kind == 0 {
		*doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	root := doc.Content[0]
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			// keep any line comment attached to the old value
			value.LineComment = root.Content[i+1].LineComment
			root.Content[i+1] = value
			return nil
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames it.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".swipe.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
