package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	simerrors "github.com/JINGLONGGIT/weatherDC/internal/errors"
)

const (
	// KeyCatalogPath and KeyOutputDir are the job file keys read by a run.
	KeyCatalogPath = "Config/createData/inifilepath"
	KeyOutputDir   = "Config/createData/generatefilepath"
)

// File is a parsed YAML job file addressed by slash-separated key paths.
type File struct {
	root *yaml.Node
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	f, err := ParseFile(b)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

// ParseFile parses YAML bytes.
func ParseFile(b []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	f := &File{}
	if len(doc.Content) > 0 {
		f.root = doc.Content[0]
	}
	return f, nil
}

// Lookup returns the scalar at keyPath, e.g. "Config/createData/inifilepath".
// Missing keys, non-scalar values and blank strings all report
// ErrConfigKeyMissing.
func (f *File) Lookup(keyPath string) (string, error) {
	node := f.root
	for _, key := range strings.Split(strings.Trim(keyPath, "/"), "/") {
		node = child(node, key)
		if node == nil {
			return "", fmt.Errorf("%w: %s", simerrors.ErrConfigKeyMissing, keyPath)
		}
	}
	if node.Kind != yaml.ScalarNode || strings.TrimSpace(node.Value) == "" {
		return "", fmt.Errorf("%w: %s", simerrors.ErrConfigKeyMissing, keyPath)
	}
	return strings.TrimSpace(node.Value), nil
}

func child(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
