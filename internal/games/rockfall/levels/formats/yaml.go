// Package formats provides level file format parsers.
package formats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
//
// The map is an ASCII block using the tile legend:
//
//	#  wall        .  dirt       space or _  empty
//	o  boulder     *  diamond    P  player   E  exit
//
// Blank lines around the map are dropped, so a fully empty first or last
// row must be written with _.
type YAMLLevel struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name"`
	DiamondsNeeded int               `yaml:"diamonds_needed,omitempty"`
	TimeLimit      int               `yaml:"time_limit,omitempty"`
	Map            string            `yaml:"map"`
	Metadata       map[string]string `yaml:"metadata,omitempty"`
}

// Level represents a parsed level ready for validation.
type Level struct {
	ID             string
	Name           string
	Width          int
	Height         int
	DiamondsNeeded int // 0 means "use the configured default"
	TimeLimit      int // 0 means "use the configured default"
	Rows           []string
	Metadata       map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("missing id")
	}

	rows := SplitMap(yl.Map)
	width := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}

	name := yl.Name
	if name == "" {
		name = yl.ID
	}

	return Level{
		ID:             yl.ID,
		Name:           name,
		Width:          width,
		Height:         len(rows),
		DiamondsNeeded: yl.DiamondsNeeded,
		TimeLimit:      yl.TimeLimit,
		Rows:           rows,
		Metadata:       yl.Metadata,
	}, nil
}

// MarshalYAML encodes a level back into the file format.
func MarshalYAML(l Level) ([]byte, error) {
	yl := YAMLLevel{
		ID:             l.ID,
		Name:           l.Name,
		DiamondsNeeded: l.DiamondsNeeded,
		TimeLimit:      l.TimeLimit,
		Map:            strings.Join(l.Rows, "\n") + "\n",
		Metadata:       l.Metadata,
	}
	return yaml.Marshal(yl)
}

// SplitMap splits a map block into rows, dropping leading and trailing blank lines.
func SplitMap(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	lines := strings.Split(block, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
