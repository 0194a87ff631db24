package game

import (
	"errors"
	"testing"
	"time"

	"xiangqi/internal/xiangqi"
)

func newTestSession() *Session {
	return newSession("test", 1, 2, Config{SearchTime: time.Second})
}

func TestNewGameStandardLayout(t *testing.T) {
	s := newTestSession()
	if s.Status != StatusPlaying {
		t.Fatal("new game should be playing")
	}
	if s.Pos.Board.CountPieces(xiangqi.NoSide) != 32 {
		t.Fatal("new game should have 32 pieces")
	}
	if s.Pos.SideToMove != xiangqi.Red {
		t.Fatal("red moves first")
	}
	if len(s.History) != 0 {
		t.Fatal("new game history should be empty")
	}
}

func TestMoveByNotationFlipsSideAndRecordsHistory(t *testing.T) {
	s := newTestSession()
	if err := s.MoveByNotation(1, "炮二平五"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(s.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(s.History))
	}
	if s.History[0] != "炮二平五" {
		t.Fatalf("history[0] = %q", s.History[0])
	}
	if s.Pos.SideToMove != xiangqi.Black {
		t.Fatal("side should flip to black")
	}
	if s.LastMove == nil || s.LastMove.From != xiangqi.IndexOf(7, 7) {
		t.Fatalf("last move = %+v", s.LastMove)
	}
}

func TestMoveRejectsWrongTurnAndBadInput(t *testing.T) {
	s := newTestSession()

	// 黑方棋手在红方回合落子
	if err := s.MoveByNotation(2, "炮8平5"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	// 空格起手
	if err := s.Move(xiangqi.IndexOf(5, 4), xiangqi.IndexOf(4, 4)); !errors.Is(err, ErrPieceNotFound) {
		t.Fatalf("err = %v, want ErrPieceNotFound", err)
	}
	// 黑子在红方回合
	if err := s.Move(xiangqi.IndexOf(2, 1), xiangqi.IndexOf(2, 4)); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	// 不合规则的走法
	if err := s.Move(xiangqi.IndexOf(9, 0), xiangqi.IndexOf(7, 1)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	// 乱码记谱
	if err := s.MoveByNotation(1, "龟二平五"); !errors.Is(err, ErrInvalidNotation) {
		t.Fatalf("err = %v, want ErrInvalidNotation", err)
	}
	if len(s.History) != 0 {
		t.Fatal("rejected moves must not touch history")
	}
}

func TestMoveRollsBackFlyingGeneralExposure(t *testing.T) {
	s := newTestSession()
	// 两帅同线，中间只有一只红车：车离线必须被拒并回滚
	pos, err := xiangqi.DecodePosition("4k4/9/9/9/9/4R4/9/9/9/4K4 w")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s.Pos = pos

	from, to := xiangqi.IndexOf(5, 4), xiangqi.IndexOf(5, 0)
	if err := s.Move(from, to); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v, want ErrIllegalMove", err)
	}
	if s.Pos.Board.Squares[from] == 0 {
		t.Fatal("rejected move must be rolled back")
	}
	if s.Pos.SideToMove != xiangqi.Red {
		t.Fatal("side must not flip on rejection")
	}
	if s.Pos.Hash != s.Pos.CalculateHash() {
		t.Fatal("hash must be restored on rollback")
	}

	// 沿线走仍然合法
	if err := s.Move(from, xiangqi.IndexOf(1, 4)); err != nil {
		t.Fatalf("move along the file: %v", err)
	}
}

func TestCapturingGeneralFinishesGame(t *testing.T) {
	s := newTestSession()
	pos, err := xiangqi.DecodePosition("R3k4/9/9/9/9/9/9/9/9/4K4 w")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s.Pos = pos

	if err := s.Move(xiangqi.IndexOf(0, 0), xiangqi.IndexOf(0, 4)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if s.Status != StatusFinished {
		t.Fatal("capturing the general must finish the game")
	}
	if s.Winner != xiangqi.Red {
		t.Fatalf("winner = %v, want red", s.Winner)
	}

	// 终局后一切落子被拒
	if err := s.Move(xiangqi.IndexOf(9, 4), xiangqi.IndexOf(8, 4)); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("err = %v, want ErrGameFinished", err)
	}
}

func TestResignLifecycle(t *testing.T) {
	s := newTestSession()

	if s.Resign(42) {
		t.Fatal("non-participant resign must be a no-op")
	}
	if !s.Resign(1) {
		t.Fatal("participant resign while playing should succeed")
	}
	if s.Status != StatusFinished || s.Winner != xiangqi.Black {
		t.Fatalf("status=%v winner=%v, want finished/black", s.Status, s.Winner)
	}
	if s.Resign(2) {
		t.Fatal("second resign must return false")
	}
}

func TestStateViewCopiesAndTurn(t *testing.T) {
	s := newTestSession()
	if err := s.MoveByNotation(1, "炮二平五"); err != nil {
		t.Fatalf("move: %v", err)
	}

	st := s.State()
	if st.Status != StatusPlaying || st.Turn != xiangqi.Black {
		t.Fatalf("status=%v turn=%v, want playing/black", st.Status, st.Turn)
	}
	if st.BlackPlayer != 2 {
		t.Fatalf("black player = %d, want 2", st.BlackPlayer)
	}
	if len(st.History) != 1 || st.History[0] != "炮二平五" {
		t.Fatalf("history = %v", st.History)
	}
	if st.LastMove == nil || st.LastMove.From != xiangqi.IndexOf(7, 7) {
		t.Fatalf("last move = %+v", st.LastMove)
	}

	// 快照是副本：改它不能影响会话本体
	st.History[0] = "tampered"
	st.LastMove.From = -1
	st.Position.Board.Squares[xiangqi.IndexOf(7, 4)] = 0
	if s.History[0] != "炮二平五" {
		t.Fatal("mutating the view history must not touch the session")
	}
	if s.LastMove.From != xiangqi.IndexOf(7, 7) {
		t.Fatal("mutating the view last move must not touch the session")
	}
	if s.Pos.Board.Squares[xiangqi.IndexOf(7, 4)] == 0 {
		t.Fatal("mutating the view position must not touch the session")
	}

	s.Finish(xiangqi.Red)
	st = s.State()
	if st.Status != StatusFinished || st.Winner != xiangqi.Red || st.Turn != xiangqi.NoSide {
		t.Fatalf("finished view = %+v", st)
	}
}

// 一边落子一边读快照：-race 下不得有数据竞争，且快照字段自洽
func TestStateSafeDuringConcurrentMoves(t *testing.T) {
	s := newTestSession()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 40; i++ {
			legal := s.LegalMoves()
			if len(legal) == 0 {
				return
			}
			if err := s.Move(legal[i%len(legal)].From, legal[i%len(legal)].To); err != nil {
				if errors.Is(err, ErrGameFinished) {
					return
				}
			}
		}
	}()

	for {
		st := s.State()
		if st.Status == StatusFinished && st.Turn != xiangqi.NoSide {
			t.Fatal("finished view must report NoSide turn")
		}
		if len(st.History) > 0 && st.LastMove == nil {
			t.Fatal("view with history must carry a last move")
		}
		_ = st.Position.Encode()

		select {
		case <-done:
			return
		default:
		}
	}
}

func TestSnapshotMirrorsBoard(t *testing.T) {
	s := newTestSession()
	grid := s.Snapshot()

	red := 0
	black := 0
	for r := 0; r < xiangqi.Rows; r++ {
		for c := 0; c < xiangqi.Cols; c++ {
			sv := grid[r][c]
			if sv == nil {
				continue
			}
			if sv.Glyph == "" {
				t.Fatalf("square (%d,%d) has no glyph", r, c)
			}
			switch sv.Side {
			case xiangqi.Red:
				red++
			case xiangqi.Black:
				black++
			}
		}
	}
	if red != 16 || black != 16 {
		t.Fatalf("snapshot pieces red=%d black=%d, want 16/16", red, black)
	}
	if grid[0][4].Kind != xiangqi.PieceGeneral || grid[0][4].Glyph != "将" {
		t.Fatalf("black general square = %+v", grid[0][4])
	}
	if grid[9][4].Glyph != "帅" {
		t.Fatalf("red general square = %+v", grid[9][4])
	}
}
