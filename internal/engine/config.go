package engine

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/dungeon"

	"gopkg.in/yaml.v3"
)

// Политики ИИ для автономных существ
const (
	PolicyRandom  = "random"
	PolicyIdle    = "idle"
	PolicyStalker = "stalker"
)

const DefaultPort = "8080"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят генерация уровня и ИИ. 0 - взять от времени.
	Seed         int64        `yaml:"seed"`
	VisionRadius int          `yaml:"vision_radius"`
	Level        LevelConfig  `yaml:"level"`
	AI           AIConfig     `yaml:"ai"`
	JournalDir   string       `yaml:"journal_dir"`
	ReplayDir    string       `yaml:"replay_dir"`
	Server       ServerConfig `yaml:"server"`
}

type LevelConfig struct {
	Layout    string                `yaml:"layout,omitempty"`    // Встроенная карта: basic, arena
	Map       string                `yaml:"map,omitempty"`       // ASCII-карта, перекрывает layout
	Spawns    []dungeon.SpawnRecord `yaml:"spawns,omitempty"`    // Дополнительные сущности поверх map
	File      string                `yaml:"file,omitempty"`      // YAML-файл уровня, перекрывает map
	Generator *dungeon.RoomsConfig  `yaml:"generator,omitempty"` // Генератор комнат, перекрывает всё
}

type AIConfig struct {
	Policy string `yaml:"policy"`
	Radius int    `yaml:"radius,omitempty"` // Радиус преследования для stalker
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Bot  bool   `yaml:"bot"` // Игроком управляет встроенный агент
}

// DefaultConfig создает конфиг по умолчанию (сид от времени)
func DefaultConfig() Config {
	return Config{
		VisionRadius: domain.VisionRadius,
		Level:        LevelConfig{Layout: "basic"},
		AI:           AIConfig{Policy: PolicyRandom},
		Server:       ServerConfig{Port: DefaultPort},
	}
}

// LoadConfig: умолчания -> файл (необязателен) -> Normalize -> Validate.
// Переменная окружения CD_PORT перекрывает порт из файла.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if port := os.Getenv("CD_PORT"); port != "" {
		cfg.Server.Port = port
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Normalize подставляет умолчания вместо пустых значений
func (c *Config) Normalize() {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.VisionRadius == 0 {
		c.VisionRadius = domain.VisionRadius
	}
	c.AI.Policy = strings.ToLower(strings.TrimSpace(c.AI.Policy))
	if c.AI.Policy == "" {
		c.AI.Policy = PolicyRandom
	}
	c.Level.Layout = strings.ToLower(strings.TrimSpace(c.Level.Layout))
	if c.Level.Layout == "" {
		c.Level.Layout = "basic"
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
}

// Validate проверяет согласованность значений
func (c Config) Validate() error {
	var errs []error
	if c.VisionRadius < 0 {
		errs = append(errs, fmt.Errorf("vision_radius must be >= 0, got %d", c.VisionRadius))
	}
	switch c.AI.Policy {
	case PolicyRandom, PolicyIdle, PolicyStalker:
	default:
		errs = append(errs, fmt.Errorf("unknown ai.policy %q", c.AI.Policy))
	}
	if c.Level.Map == "" && c.Level.File == "" && c.Level.Generator == nil {
		if _, err := dungeon.BuiltinLayout(c.Level.Layout); err != nil {
			errs = append(errs, err)
		}
	}
	if g := c.Level.Generator; g != nil && (g.Width < 0 || g.Height < 0 || g.Rooms < 0 || g.Goblins < 0) {
		errs = append(errs, errors.New("level.generator values must be >= 0"))
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.port %q", c.Server.Port))
	}
	return errors.Join(errs...)
}

// LevelName - имя уровня для записи в реплей
func (c Config) LevelName() string {
	switch {
	case c.Level.Generator != nil:
		return "rooms"
	case c.Level.File != "":
		return c.Level.File
	case c.Level.Map != "":
		return "inline"
	}
	return c.Level.Layout
}
