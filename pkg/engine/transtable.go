package engine

import (
	"sync/atomic"

	. "github.com/minnowengine/minnow/pkg/chess"
)

const (
	boundNone = iota
	boundUpper
	boundLower
	boundExact
)

// transEntry is two words: the data word packs move, bound, depth and
// score; xkey holds the position key XORed with the data word so a torn
// read of the pair is detected by the key check on probe.
type transEntry struct {
	xkey uint64
	data uint64
}

const entrySize = 16 // bytes

const moveMask = 1<<21 - 1

func packEntryData(depth, score, bound int, move Move) uint64 {
	return uint64(uint32(move))&moveMask |
		uint64(bound)<<21 |
		uint64(uint8(depth))<<23 |
		uint64(uint16(int16(score)))<<31
}

func unpackEntryData(data uint64) (depth, score, bound int, move Move) {
	move = Move(data & moveMask)
	bound = int(data >> 21 & 3)
	depth = int(data >> 23 & 0xff)
	score = int(int16(uint16(data >> 31)))
	return
}

type transTable struct {
	megabytes int
	entries   []transEntry
	mask      uint64
}

func newTransTable(megabytes int) *transTable {
	var size = 1
	for size<<1 <= 1024*1024*megabytes/entrySize {
		size <<= 1
	}
	return &transTable{
		megabytes: megabytes,
		entries:   make([]transEntry, size),
		mask:      uint64(size - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = transEntry{}
	}
}

// Read probes the slot for key. The two words are loaded without any
// lock; a torn pair fails the XOR key check and reads as a miss.
func (tt *transTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var entry = &tt.entries[key&tt.mask]
	var data = atomic.LoadUint64(&entry.data)
	var xkey = atomic.LoadUint64(&entry.xkey)
	if xkey^data != key {
		return 0, 0, boundNone, MoveEmpty, false
	}
	depth, score, bound, move = unpackEntryData(data)
	if bound == boundNone {
		return 0, 0, boundNone, MoveEmpty, false
	}
	return depth, score, bound, move, true
}

// Update overwrites the slot unconditionally, except that a store with
// no move keeps the move already recorded for the same position.
func (tt *transTable) Update(key uint64, depth, score, bound int, move Move) {
	var entry = &tt.entries[key&tt.mask]
	var oldData = atomic.LoadUint64(&entry.data)
	var oldXkey = atomic.LoadUint64(&entry.xkey)
	if move == MoveEmpty && oldXkey^oldData == key {
		move = Move(oldData & moveMask)
	}
	var data = packEntryData(depth, score, bound, move)
	atomic.StoreUint64(&entry.data, data)
	atomic.StoreUint64(&entry.xkey, key^data)
}

// HashFull samples the leading entries and reports usage per mille.
func (tt *transTable) HashFull() int {
	var sample = 1000
	if sample > len(tt.entries) {
		sample = len(tt.entries)
	}
	var used = 0
	for i := 0; i < sample; i++ {
		var data = atomic.LoadUint64(&tt.entries[i].data)
		if data>>21&3 != boundNone {
			used++
		}
	}
	return used * 1000 / sample
}
