package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"xiangqi/internal/xiangqi"
)

// Difficulty 难度档位，固定在对局创建时
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// MaxDepth 难度对应的迭代加深上限
func (d Difficulty) MaxDepth() int {
	switch d {
	case DifficultyEasy:
		return 2
	case DifficultyMedium:
		return 4
	default:
		return 8
	}
}

// ErrNoMove 搜索方无棋可走：调用方应判负。
var ErrNoMove = errors.New("engine: no legal move")

// BookLookup 远程开局库的窄接口；查询失败一律本地搜索兜底。
type BookLookup interface {
	Query(ctx context.Context, fen string) (xiangqi.Move, error)
}

// 搜索配置
type SearchConfig struct {
	Difficulty Difficulty
	MaxDepth   int           // 0 时取难度默认值
	TimeLimit  time.Duration // 搜索时间上限（0 表示不限制）
	DisableTT  bool          // 关掉置换表（基准对照用）
}

// 搜索结果
type SearchResult struct {
	BestMove xiangqi.Move  // 最佳着法
	Score    int           // 走子方视角评估分
	Depth    int           // 完整搜完的深度
	Nodes    int64         // 节点数
	TimeUsed time.Duration // 花费时间
	FromBook bool          // 命中远程开局库
}

const maxPly = 64

// Engine 可被多盘棋共享：自身只持久件（置换表、开局库、随机源），
// 每次搜索的易变状态全在 searcher 里现场分配。
type Engine struct {
	tt   *TransTable
	book BookLookup

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewEngine() *Engine {
	return &Engine{
		tt:  NewTransTable(defaultTTPow),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetBook 挂远程开局库（可选，最高难度才会用）
func (e *Engine) SetBook(b BookLookup) {
	e.book = b
}

// randomIndex rand.Rand 不是并发安全的，单独上锁
func (e *Engine) randomIndex(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

// searcher 单次 Search 调用的全部易变状态。并发搜索各拿各的，
// 只有置换表是共享件，内部自带锁。
type searcher struct {
	tt   *TransTable
	diff Difficulty
	noTT bool
	ctx  context.Context

	deadline time.Time
	nodes    int64
	stopped  bool

	killers [maxPly][2]xiangqi.Move
	// 历史启发表，平铺下标 = from*NumSquares + to；跨深度累积，跨搜索丢弃
	history [xiangqi.NumSquares * xiangqi.NumSquares]int
}

func (e *Engine) newSearcher(ctx context.Context, cfg SearchConfig) *searcher {
	s := &searcher{
		tt:   e.tt,
		diff: cfg.Difficulty,
		noTT: cfg.DisableTT,
		ctx:  ctx,
	}
	if cfg.TimeLimit > 0 {
		s.deadline = time.Now().Add(cfg.TimeLimit)
	}
	if !s.noTT {
		e.tt.NextGeneration()
	}
	return s
}

func (s *searcher) historyScore(mv xiangqi.Move) int {
	return s.history[mv.From*xiangqi.NumSquares+mv.To]
}

func (s *searcher) bumpHistory(mv xiangqi.Move, depth int) {
	s.history[mv.From*xiangqi.NumSquares+mv.To] += depth * depth
}

func (s *searcher) recordKiller(ply int, mv xiangqi.Move) {
	if ply < 0 || ply >= maxPly {
		return
	}
	k := &s.killers[ply]
	if k[0].From == mv.From && k[0].To == mv.To {
		return
	}
	k[1] = k[0]
	k[0] = mv
}

func (s *searcher) isKiller(ply int, mv xiangqi.Move) bool {
	if ply < 0 || ply >= maxPly {
		return false
	}
	k := s.killers[ply]
	return (k[0].From == mv.From && k[0].To == mv.To) ||
		(k[1].From == mv.From && k[1].To == mv.To)
}
