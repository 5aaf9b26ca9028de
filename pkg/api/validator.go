package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"dungeon-kernel/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed command.schema.json
var commandSchemaJSON []byte

const commandSchemaURL = "command.schema.json"

var (
	commandSchemaOnce sync.Once
	commandSchema     *jsonschema.Schema
	commandSchemaErr  error
)

// ErrInvalidCommand - сообщение клиента не прошло проверку
var ErrInvalidCommand = errors.New("api: invalid command")

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func loadCommandSchema() (*jsonschema.Schema, error) {
	commandSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(commandSchemaURL, bytes.NewReader(commandSchemaJSON)); err != nil {
			commandSchemaErr = err
			return
		}
		commandSchema, commandSchemaErr = c.Compile(commandSchemaURL)
	})
	return commandSchema, commandSchemaErr
}

// DecodeCommand проверяет сырое сообщение по JSON-схеме и разбирает его.
func DecodeCommand(data []byte) (ClientCommand, error) {
	var cmd ClientCommand

	schema, err := loadCommandSchema()
	if err != nil {
		return cmd, fmt.Errorf("api: command schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if err := schema.Validate(doc); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return cmd, nil
}

func (p DirectionPayload) Validate() error {
	if _, ok := domain.ParseDirection(p.Direction); !ok {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidCommand, p.Direction)
	}
	return nil
}
