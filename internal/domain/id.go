package domain

import (
	"fmt"
	"math"
	"strconv"
)

// EntityID - уникальный в пределах одного World идентификатор сущности.
// Выдается аллокатором мира строго по возрастанию и никогда не переиспользуется.
type EntityID uint64

// MaxEntityID - последний допустимый идентификатор. После него аллокатор исчерпан.
const MaxEntityID EntityID = math.MaxUint64

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших uint64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	// Удаляем кавычки, если есть
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", string(data), err)
	}
	*id = EntityID(val)
	return nil
}

// String для логов: #42
func (id EntityID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}
