package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"dungeon-kernel/internal/domain"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrInvalidMagic       = errors.New("storage: invalid magic")
	ErrUnsupportedVersion = errors.New("storage: unsupported replay version")
)

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	return LoadReplay(path)
}

// LoadReplay читает файл записи без привязки к каталогу
func LoadReplay(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadReplay(f)
}

func ReadReplay(r io.Reader) (*domain.ReplaySession, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return readBinary(dec)
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version2 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version2)
	}

	id := make([]byte, header.IDLen)
	if _, err := io.ReadFull(r, id); err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}
	layout := make([]byte, header.LayoutLen)
	if _, err := io.ReadFull(r, layout); err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	session := &domain.ReplaySession{
		ID:        string(id),
		Seed:      header.Seed,
		Layout:    string(layout),
		Timestamp: header.Timestamp,
		Digest:    header.Digest,
		Actions:   make([]domain.ReplayAction, 0, header.ActionCount),
	}

	for i := uint32(0); i < header.ActionCount; i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("failed to read action %d: %w", i, err)
		}
		session.Actions = append(session.Actions, domain.ReplayAction{
			Seq:       int(ah.Seq),
			Actor:     domain.EntityID(ah.Actor),
			Action:    domain.ActionType(ah.Action),
			Direction: domain.Direction(ah.Direction),
		})
	}

	return session, nil
}
