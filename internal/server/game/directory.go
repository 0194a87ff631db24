package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Invite 对局邀请，到期即视为不存在，哪怕还没物理清掉。
type Invite struct {
	Inviter int64
	Target  int64
	Expires time.Time
}

func (iv *Invite) expired(now time.Time) bool {
	return now.After(iv.Expires)
}

const (
	defaultInviteTTL   = 2 * time.Minute
	defaultSweepPeriod = time.Minute
	finishedSessionTTL = 10 * time.Minute
)

// Directory 全部对局和邀请的进程内注册表。
// 显式构造、显式传递，不做包级单例。
type Directory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	invites  map[int64]*Invite // 键 = 被邀请人

	inviteTTL time.Duration
	logger    *zap.Logger
}

func NewDirectory(logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		sessions:  make(map[string]*Session),
		invites:   make(map[int64]*Invite),
		inviteTTL: defaultInviteTTL,
		logger:    logger,
	}
}

// CreateGame 开一盘新棋并登记
func (d *Directory) CreateGame(red, black int64, cfg Config) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.NewString()
	s := newSession(id, red, black, cfg)
	d.sessions[id] = s
	d.logger.Info("新对局",
		zap.String("game_id", id),
		zap.Int64("red", red),
		zap.Int64("black", black))
	return s
}

func (d *Directory) Get(id string) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.sessions[id]
	if !ok {
		return nil, ErrNoActiveGame
	}
	return s, nil
}

// FindByParticipant 找该棋手正在下的棋。没有返回 ErrNoActiveGame。
func (d *Directory) FindByParticipant(playerID int64) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.sessions {
		if s.participant(playerID) && s.Status == StatusPlaying {
			return s, nil
		}
	}
	return nil, ErrNoActiveGame
}

// FindByTurn 找轮到该棋手落子的那盘棋，用来给落子消息路由。
func (d *Directory) FindByTurn(playerID int64) (*Session, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.sessions {
		if !s.participant(playerID) {
			continue
		}
		if s.TurnOf() == s.SideOf(playerID) && s.Status == StatusPlaying {
			return s, nil
		}
	}
	return nil, ErrNoActiveGame
}

// Remove 摘掉一盘棋（通常是终局后）
func (d *Directory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
}

// AddInvite 给目标棋手记一条带 TTL 的邀请，覆盖旧的。
func (d *Directory) AddInvite(inviter, target int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invites[target] = &Invite{
		Inviter: inviter,
		Target:  target,
		Expires: time.Now().Add(d.inviteTTL),
	}
}

// TakeInvite 取走目标棋手的邀请；过期的当不存在。
func (d *Directory) TakeInvite(target int64) (*Invite, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	iv, ok := d.invites[target]
	if !ok {
		return nil, false
	}
	delete(d.invites, target)
	if iv.expired(time.Now()) {
		return nil, false
	}
	return iv, true
}

// Sweep 清理过期邀请和放了太久的终局对局，压住内存。
func (d *Directory) Sweep() {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	for target, iv := range d.invites {
		if iv.expired(now) {
			delete(d.invites, target)
		}
	}
	for id, s := range d.sessions {
		s.mu.Lock()
		stale := s.Status == StatusFinished && now.Sub(s.UpdatedAt) > finishedSessionTTL
		s.mu.Unlock()
		if stale {
			delete(d.sessions, id)
			d.logger.Debug("清理终局对局", zap.String("game_id", id))
		}
	}
}

// Run 周期清扫，ctx 取消即退出。
func (d *Directory) Run(ctx context.Context) error {
	ticker := time.NewTicker(defaultSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Sweep()
		}
	}
}

// Count 当前登记的对局数
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}

// 便于测试注入
func (d *Directory) setInviteTTL(ttl time.Duration) { d.inviteTTL = ttl }
