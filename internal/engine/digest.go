package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Digest - хеш наблюдаемого состояния: сущности (id, вид, позиция) и очередь ходов.
// Порядок обхода фиксирован, поэтому одинаковые миры дают одинаковый хеш.
func Digest(g *Game) uint64 {
	h := xxhash.New()
	var buf [8]byte

	putUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putInt := func(v int) { putUint(uint64(int64(v))) }

	for _, e := range g.World.Entities() {
		putUint(uint64(e.ID()))
		_, _ = h.WriteString(e.Kind().Name())
		if pos, ok := e.Pos(); ok {
			putUint(1)
			putInt(pos.X)
			putInt(pos.Y)
		} else {
			putUint(0)
		}
	}

	putUint(uint64(g.Turns.Len()))
	for _, id := range g.Turns.Order() {
		putUint(uint64(id))
	}
	if current, ok := g.Turns.Current(); ok {
		putUint(1)
		putUint(uint64(current))
	} else {
		putUint(0)
	}

	return h.Sum64()
}
