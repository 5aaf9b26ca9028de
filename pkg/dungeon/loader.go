package dungeon

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelFile - описание уровня в YAML
type LevelFile struct {
	Name   string        `yaml:"name"`
	Map    string        `yaml:"map"`
	Spawns []SpawnRecord `yaml:"spawns"`
}

// SpawnRecord - дополнительная сущность поверх карты
type SpawnRecord struct {
	Template string `yaml:"template"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
}

// LoadLevel читает уровень из YAML
func LoadLevel(r io.Reader) (*LevelFile, error) {
	var lf LevelFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lf); err != nil {
		return nil, fmt.Errorf("dungeon: decode level: %w", err)
	}
	if lf.Map == "" {
		return nil, fmt.Errorf("dungeon: level %q has empty map", lf.Name)
	}
	return &lf, nil
}

// LoadLevelFile читает уровень из файла
func LoadLevelFile(path string) (*LevelFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dungeon: open level: %w", err)
	}
	defer f.Close()
	return LoadLevel(f)
}
