package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"xiangqi/internal/notation"
	"xiangqi/internal/xiangqi"
)

// AIPlayer 电脑执子的占位标识
const AIPlayer int64 = -1

type Status int

const (
	StatusPlaying Status = iota
	StatusFinished
)

// Config 对局配置，创建时定死，中途不可改。
type Config struct {
	Difficulty int           // 引擎难度档位
	SearchTime time.Duration // 引擎单步时限
}

// Session 一盘棋。Playing → Finished 单向，终局后只读。
// 所有修改都要拿 mu，同一盘棋的并发落子串行化。
type Session struct {
	mu sync.Mutex

	ID          string
	RedPlayer   int64
	BlackPlayer int64
	Config      Config

	Pos       *xiangqi.Position
	Status    Status
	Winner    xiangqi.Side
	History   []string // 着法的中文记谱，按落子顺序
	LastMove  *xiangqi.Move
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SquareView 纯快照格子，供渲染层用
type SquareView struct {
	Kind  xiangqi.PieceType `json:"kind"`
	Side  xiangqi.Side      `json:"side"`
	Glyph string            `json:"glyph"`
}

func newSession(id string, red, black int64, cfg Config) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		RedPlayer:   red,
		BlackPlayer: black,
		Config:      cfg,
		Pos:         xiangqi.NewInitialPosition(),
		Status:      StatusPlaying,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// participant 是否本局棋手
func (s *Session) participant(playerID int64) bool {
	return playerID == s.RedPlayer || playerID == s.BlackPlayer
}

// sideOf 棋手执哪方；非棋手返回 NoSide
func (s *Session) sideOf(playerID int64) xiangqi.Side {
	switch playerID {
	case s.RedPlayer:
		return xiangqi.Red
	case s.BlackPlayer:
		return xiangqi.Black
	}
	return xiangqi.NoSide
}

// SideOf 加锁版 sideOf
func (s *Session) SideOf(playerID int64) xiangqi.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sideOf(playerID)
}

// Move 落子。校验顺序：终局 → 有无棋子 → 轮次 → 走法 → 飞将回滚。
// 吃掉对方将帅即胜，终局。
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(from, to)
}

func (s *Session) moveLocked(from, to int) error {
	if s.Status == StatusFinished {
		return ErrGameFinished
	}
	if from < 0 || from >= xiangqi.NumSquares || to < 0 || to >= xiangqi.NumSquares {
		return fmt.Errorf("%w: square out of range", ErrIllegalMove)
	}

	mover := s.Pos.Board.Squares[from]
	if mover == 0 {
		return ErrPieceNotFound
	}
	if mover.Side() != s.Pos.SideToMove {
		return ErrNotYourTurn
	}
	if !s.Pos.IsValidMove(from, to) {
		return ErrIllegalMove
	}

	mv := xiangqi.Move{From: from, To: to}

	// 记谱要在落子前生成，落子后局面变了
	text, nerr := notation.Generate(s.Pos, mv)

	captured := s.Pos.Board.Squares[to]
	undo := s.Pos.MakeMove(mv)
	if s.Pos.KingsFace() {
		s.Pos.UndoMove(undo)
		return fmt.Errorf("%w: generals face each other", ErrIllegalMove)
	}

	if nerr != nil {
		// 记谱失败不挡棋，留个坐标兜底
		text = fmt.Sprintf("%d-%d", from, to)
	}
	s.History = append(s.History, text)
	s.LastMove = &mv
	s.UpdatedAt = time.Now()

	if captured != 0 && captured.Type() == xiangqi.PieceGeneral {
		s.Status = StatusFinished
		s.Winner = mover.Side()
	}
	return nil
}

// MoveByNotation 按中文记谱落子
func (s *Session) MoveByNotation(playerID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status == StatusFinished {
		return ErrGameFinished
	}
	side := s.sideOf(playerID)
	if side == xiangqi.NoSide || side != s.Pos.SideToMove {
		return ErrNotYourTurn
	}

	mv, err := notation.Parse(text, s.Pos, side)
	if err != nil {
		var perr *notation.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("%w: %s", ErrInvalidNotation, perr.Error())
		}
		return fmt.Errorf("%w: %v", ErrInvalidNotation, err)
	}
	return s.moveLocked(mv.From, mv.To)
}

// Resign 认输。非对局中或非棋手都是 false 的空操作。
func (s *Session) Resign(playerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusPlaying || !s.participant(playerID) {
		return false
	}
	s.Status = StatusFinished
	s.Winner = xiangqi.Opposite(s.sideOf(playerID))
	s.UpdatedAt = time.Now()
	return true
}

// StateView 会话状态的一致性快照。History 和 Position 都是副本，
// 调用方随便用，不会读到另一盘落子写了一半的字段。
type StateView struct {
	Status      Status
	Winner      xiangqi.Side
	Turn        xiangqi.Side // 终局为 NoSide
	BlackPlayer int64
	Position    *xiangqi.Position
	History     []string
	LastMove    *xiangqi.Move
}

// State 一把锁取齐全部易变字段，给 HTTP 层拼响应用
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := StateView{
		Status:      s.Status,
		Winner:      s.Winner,
		Turn:        xiangqi.NoSide,
		BlackPlayer: s.BlackPlayer,
		Position:    s.Pos.Clone(),
		History:     append([]string(nil), s.History...),
	}
	if s.Status == StatusPlaying {
		st.Turn = s.Pos.SideToMove
	}
	if s.LastMove != nil {
		mv := *s.LastMove
		st.LastMove = &mv
	}
	return st
}

// Snapshot 渲染用的只读棋盘快照
func (s *Session) Snapshot() [xiangqi.Rows][xiangqi.Cols]*SquareView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var grid [xiangqi.Rows][xiangqi.Cols]*SquareView
	for sq, p := range s.Pos.Board.Squares {
		if p == 0 {
			continue
		}
		grid[xiangqi.RowOf(sq)][xiangqi.ColOf(sq)] = &SquareView{
			Kind:  p.Type(),
			Side:  p.Side(),
			Glyph: notation.PieceGlyph(p.Type(), p.Side()),
		}
	}
	return grid
}

// LegalMoves 当前走子方的全部合法着法
func (s *Session) LegalMoves() []xiangqi.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Pos.GenerateLegalMoves()
}

// ClonePosition 给引擎搜索用的局面副本，不共享底层数组。
func (s *Session) ClonePosition() *xiangqi.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Pos.Clone()
}

// TurnOf 轮到谁落子；终局返回 NoSide。
func (s *Session) TurnOf() xiangqi.Side {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusPlaying {
		return xiangqi.NoSide
	}
	return s.Pos.SideToMove
}

// Finish 引擎无棋可走等外部原因直接判负
func (s *Session) Finish(winner xiangqi.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFinished {
		return
	}
	s.Status = StatusFinished
	s.Winner = winner
	s.UpdatedAt = time.Now()
}
