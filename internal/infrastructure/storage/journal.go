package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"

	"github.com/klauspost/compress/zstd"
)

// JournalEntry - одна пачка изменений, как ее увидели клиенты
type JournalEntry struct {
	Seq     uint64         `json:"seq"`
	Changes api.ChangeList `json:"changes"`
}

// Journal пишет изменения в JSONL, сжатый zstd. Одна сессия - один файл.
type Journal struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJournal(dir, sessionID string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("journal_%s.jsonl.zst", sessionID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Journal{path: path, f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) Append(seq uint64, changes []domain.StateChange) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.w == nil {
		return os.ErrClosed
	}
	b, err := json.Marshal(JournalEntry{Seq: seq, Changes: changes})
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.enc.Flush()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.w == nil {
		return nil
	}
	_ = j.w.Flush()
	err := j.enc.Close()
	if cerr := j.f.Close(); err == nil {
		err = cerr
	}
	j.w, j.enc, j.f = nil, nil, nil
	return err
}

// ReadJournal разбирает журнал целиком
func ReadJournal(r io.Reader) ([]JournalEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []JournalEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("journal line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// Mirror восстанавливает позиции сущностей, проигрывая журнал
func Mirror(entries []JournalEntry) map[domain.EntityID]domain.Position {
	mirror := make(map[domain.EntityID]domain.Position)
	for _, e := range entries {
		for _, c := range e.Changes {
			domain.ApplyChange(mirror, c)
		}
	}
	return mirror
}
