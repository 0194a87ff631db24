package engine

import (
	"sync"

	"xiangqi/internal/xiangqi"
)

type ttFlag uint8

const (
	ttExact ttFlag = iota
	ttLower
	ttUpper
)

// ttEntry 置换表条目。Hash 放最前保证 8 字节对齐。
type ttEntry struct {
	Hash  uint64
	Score int32
	Move  xiangqi.Move
	Depth int8
	Flag  ttFlag
	Gen   uint8
}

// TransTable 平铺定长置换表：下标 = hash & mask。
// 引擎实例被多盘棋共享，条目读写须拿 mu。
type TransTable struct {
	mu      sync.Mutex
	entries []ttEntry
	mask    uint64
	gen     uint8
}

const defaultTTPow = 20 // 2^20 条目

func NewTransTable(pow uint8) *TransTable {
	if pow == 0 {
		pow = defaultTTPow
	}
	n := 1 << pow
	return &TransTable{
		entries: make([]ttEntry, n),
		mask:    uint64(n - 1),
	}
}

// NextGeneration 每轮搜索调用一次，旧条目逐渐被替换掉。
func (t *TransTable) NextGeneration() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
}

// Probe 命中时返回条目；Hash 校验挡住槽位冲突。
func (t *TransTable) Probe(hash uint64) (ttEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[hash&t.mask]
	if e.Hash == hash {
		return e, true
	}
	return ttEntry{}, false
}

// Store 替换策略：同代或更新代直接覆盖；旧代条目只被 >= 深度的结果覆盖。
func (t *TransTable) Store(hash uint64, depth int, score int, flag ttFlag, best xiangqi.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := &t.entries[hash&t.mask]
	if e.Hash != 0 && e.Gen == t.gen && e.Hash != hash && int(e.Depth) > depth {
		// 同代更深的其它局面让位优先级更高，保留
		return
	}
	if e.Hash == hash && int(e.Depth) > depth && e.Gen == t.gen {
		return
	}
	*e = ttEntry{
		Hash:  hash,
		Score: int32(score),
		Move:  best,
		Depth: int8(depth),
		Flag:  flag,
		Gen:   t.gen,
	}
}
