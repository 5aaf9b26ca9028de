package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `CDRP` // 4 байта
	Version2    uint32 = 2
)

// ReplayFileHeader - точное представление заголовка файла в памяти.
// binary.Write пишет его целиком: тут только массивы и числа.
// Вслед за заголовком идут строки ID и Layout, затем действия.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	Digest      uint64  // 8 байт
	IDLen       uint16  // 2 байта
	LayoutLen   uint32  // 4 байта
	ActionCount uint32  // 4 байта
}

// ActionHeader - запись одного действия фиксированной длины
type ActionHeader struct {
	Seq       uint32 // 4
	Actor     uint64 // 8
	Action    uint8  // 1
	Direction uint8  // 1
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: replay dir: %w", err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет запись партии в SaveDir и возвращает путь к файлу
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_%s_%d.cdrp", session.Seed, session.ID, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteReplay(f, session); err != nil {
		return "", err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay_storage",
		"path":      path,
		"actions":   len(session.Actions),
	}).Info("Replay written")
	return path, nil
}

// WriteReplay сериализует запись в бинарный формат, сжатый zstd
func WriteReplay(w io.Writer, s *domain.ReplaySession) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	if err := writeBinary(bw, s); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	if len(s.ID) > math.MaxUint16 {
		return fmt.Errorf("session id too long: %d", len(s.ID))
	}
	if uint64(len(s.Layout)) > math.MaxUint32 || uint64(len(s.Actions)) > math.MaxUint32 {
		return fmt.Errorf("session too large")
	}

	header := ReplayFileHeader{
		Version:     Version2,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		Digest:      s.Digest,
		IDLen:       uint16(len(s.ID)),
		LayoutLen:   uint32(len(s.Layout)),
		ActionCount: uint32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, s.ID); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.Layout); err != nil {
		return err
	}

	for _, act := range s.Actions {
		actHeader := ActionHeader{
			Seq:       uint32(act.Seq),
			Actor:     uint64(act.Actor),
			Action:    uint8(act.Action),
			Direction: uint8(act.Direction),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}
	}

	return nil
}
