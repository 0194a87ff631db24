package xiangqi

import "testing"

func mustDecode(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := DecodePosition(fen)
	if err != nil {
		t.Fatalf("decode %q: %v", fen, err)
	}
	return pos
}

func TestEncodeInitialPositionLetters(t *testing.T) {
	const want = "rheakaehr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RHEAKAEHR w"
	if got := NewInitialPosition().Encode(); got != want {
		t.Fatalf("encode = %q, want %q", got, want)
	}
}

func TestInitialPositionLayout(t *testing.T) {
	pos := NewInitialPosition()
	if got := pos.Board.CountPieces(Red); got != 16 {
		t.Fatalf("red pieces = %d, want 16", got)
	}
	if got := pos.Board.CountPieces(Black); got != 16 {
		t.Fatalf("black pieces = %d, want 16", got)
	}
	if pos.SideToMove != Red {
		t.Fatal("red moves first")
	}
	if pos.KingSquare(Red) != IndexOf(9, 4) {
		t.Fatal("red general not at its palace center start")
	}
	if pos.KingSquare(Black) != IndexOf(0, 4) {
		t.Fatal("black general not at its palace center start")
	}
}

func TestCannonNeedsExactlyOneScreenToCapture(t *testing.T) {
	// 行 5：红炮 col0，红兵 col3 做炮架，黑车 col6
	pos := mustDecode(t, "4k4/9/9/9/9/C2P2r2/9/9/9/4K4 w")
	from := IndexOf(5, 0)

	if !pos.IsValidMove(from, IndexOf(5, 6)) {
		t.Fatal("cannon capture over one screen should be valid")
	}
	if pos.IsValidMove(from, IndexOf(5, 3)) {
		t.Fatal("cannon cannot capture own screen")
	}
	if !pos.IsValidMove(from, IndexOf(5, 2)) {
		t.Fatal("cannon slide to empty square with clear path should be valid")
	}
	if pos.IsValidMove(from, IndexOf(5, 4)) {
		t.Fatal("cannon cannot slide past a piece without capturing")
	}

	// 没有炮架就吃不了
	noScreen := mustDecode(t, "4k4/9/9/9/9/C5r2/9/9/9/4K4 w")
	if noScreen.IsValidMove(IndexOf(5, 0), IndexOf(5, 6)) {
		t.Fatal("cannon capture with zero screens should be invalid")
	}

	// 两个炮架也不行
	twoScreens := mustDecode(t, "4k4/9/9/9/9/CP1P2r2/9/9/9/4K4 w")
	if twoScreens.IsValidMove(IndexOf(5, 0), IndexOf(5, 6)) {
		t.Fatal("cannon capture over two screens should be invalid")
	}
}

func TestSoldierNeverRetreatsOrSidestepsBeforeRiver(t *testing.T) {
	// 红兵未过河：row 6
	pos := mustDecode(t, "4k4/9/9/9/9/9/4P4/9/9/4K4 w")
	from := IndexOf(6, 4)
	if !pos.IsValidMove(from, IndexOf(5, 4)) {
		t.Fatal("soldier forward should be valid")
	}
	if pos.IsValidMove(from, IndexOf(6, 3)) || pos.IsValidMove(from, IndexOf(6, 5)) {
		t.Fatal("soldier sideways before crossing river should be invalid")
	}
	if pos.IsValidMove(from, IndexOf(7, 4)) {
		t.Fatal("soldier never moves backward")
	}

	// 过河后：row 4 可横走，仍不可后退
	crossed := mustDecode(t, "4k4/9/9/9/4P4/9/9/9/9/4K4 w")
	cf := IndexOf(4, 4)
	if !crossed.IsValidMove(cf, IndexOf(4, 3)) || !crossed.IsValidMove(cf, IndexOf(4, 5)) {
		t.Fatal("crossed soldier should move sideways")
	}
	if crossed.IsValidMove(cf, IndexOf(5, 4)) {
		t.Fatal("crossed soldier still never retreats")
	}
}

func TestHorseLegBlocking(t *testing.T) {
	pos := NewInitialPosition()
	from := IndexOf(9, 1)
	if !pos.IsValidMove(from, IndexOf(7, 0)) || !pos.IsValidMove(from, IndexOf(7, 2)) {
		t.Fatal("initial horse jumps should be valid")
	}

	// 蹩马腿：马脚上放个子
	blocked := mustDecode(t, "4k4/9/9/9/9/9/9/9/1P7/1H2K4 w")
	if blocked.IsValidMove(IndexOf(9, 1), IndexOf(7, 0)) ||
		blocked.IsValidMove(IndexOf(9, 1), IndexOf(7, 2)) {
		t.Fatal("horse jump over a blocked leg should be invalid")
	}
}

func TestElephantEyeAndRiver(t *testing.T) {
	pos := NewInitialPosition()
	from := IndexOf(9, 2)
	if !pos.IsValidMove(from, IndexOf(7, 4)) {
		t.Fatal("initial elephant move should be valid")
	}

	// 塞象眼
	blocked := mustDecode(t, "4k4/9/9/9/9/9/9/9/3P5/2E1K4 w")
	if blocked.IsValidMove(IndexOf(9, 2), IndexOf(7, 4)) {
		t.Fatal("elephant move with blocked eye should be invalid")
	}

	// 象不过河
	atRiver := mustDecode(t, "4k4/9/9/9/9/2E6/9/9/9/4K4 w")
	if atRiver.IsValidMove(IndexOf(5, 2), IndexOf(3, 0)) ||
		atRiver.IsValidMove(IndexOf(5, 2), IndexOf(3, 4)) {
		t.Fatal("red elephant must not cross the river")
	}
}

func TestGeneralAndAdvisorConfinedToPalace(t *testing.T) {
	pos := mustDecode(t, "4k4/9/9/9/9/9/9/3A5/9/3K5 w")
	if pos.IsValidMove(IndexOf(9, 3), IndexOf(9, 2)) {
		t.Fatal("general must stay inside the palace")
	}
	if !pos.IsValidMove(IndexOf(9, 3), IndexOf(9, 4)) {
		t.Fatal("general step inside the palace should be valid")
	}
	if pos.IsValidMove(IndexOf(7, 3), IndexOf(6, 2)) {
		t.Fatal("advisor must stay inside the palace")
	}
	if !pos.IsValidMove(IndexOf(7, 3), IndexOf(8, 4)) {
		t.Fatal("advisor diagonal step inside the palace should be valid")
	}
}

// 走子生成器和逐格校验器必须一致
func TestGeneratorAgreesWithValidator(t *testing.T) {
	positions := []*Position{
		NewInitialPosition(),
		mustDecode(t, "4k4/9/2P6/9/9/C2P2r2/9/9/9/4K4 w"),
		mustDecode(t, "3ak4/9/4e4/p8/9/9/9/4E4/4A4/3K5 b"),
	}
	for pi, pos := range positions {
		for _, side := range []Side{Red, Black} {
			want := make(map[Move]bool)
			for from := 0; from < NumSquares; from++ {
				pc := pos.Board.Squares[from]
				if pc == 0 || pc.Side() != side {
					continue
				}
				for to := 0; to < NumSquares; to++ {
					if pos.IsValidMove(from, to) {
						want[Move{From: from, To: to}] = true
					}
				}
			}
			got := make(map[Move]bool)
			for _, mv := range pos.GeneratePseudoMovesForSide(side) {
				got[Move{From: mv.From, To: mv.To}] = true
			}
			if len(got) != len(want) {
				t.Fatalf("position %d side %v: generator %d moves, validator %d", pi, side, len(got), len(want))
			}
			for mv := range want {
				if !got[mv] {
					t.Fatalf("position %d side %v: validator accepts %+v, generator misses it", pi, side, mv)
				}
			}
		}
	}
}

// 合法着法永远不会留下对脸将
func TestLegalMovesNeverLeaveFacingGenerals(t *testing.T) {
	pos := mustDecode(t, "4k4/9/9/9/9/4R4/9/9/9/4K4 w")
	for _, mv := range pos.GenerateLegalMoves() {
		undo := pos.MakeMove(mv)
		facing := pos.KingsFace()
		pos.UndoMove(undo)
		if facing {
			t.Fatalf("legal move %+v leaves generals facing", mv)
		}
	}
	// 车离线的着法必须全部被过滤掉
	for _, mv := range pos.GenerateLegalMoves() {
		if mv.From == IndexOf(5, 4) && ColOf(mv.To) != 4 {
			t.Fatalf("move %+v off the shared file should be illegal", mv)
		}
	}
}

// 每步棋棋子总数要么不变要么对方少一个
func TestPieceCountInvariantOverRandomGame(t *testing.T) {
	pos := NewInitialPosition()
	for ply := 0; ply < 120; ply++ {
		moves := pos.GenerateLegalMoves()
		if len(moves) == 0 {
			break
		}
		side := pos.SideToMove
		own := pos.Board.CountPieces(side)
		enemy := pos.Board.CountPieces(Opposite(side))

		mv := moves[(ply*31+7)%len(moves)]
		captured := pos.Board.Squares[mv.To] != 0
		pos.MakeMove(mv)

		if pos.Board.CountPieces(side) != own {
			t.Fatalf("ply %d: mover's piece count changed", ply)
		}
		wantEnemy := enemy
		if captured {
			wantEnemy--
		}
		if pos.Board.CountPieces(Opposite(side)) != wantEnemy {
			t.Fatalf("ply %d: enemy piece count %d, want %d", ply,
				pos.Board.CountPieces(Opposite(side)), wantEnemy)
		}
		if !pos.KingExists(Red) || !pos.KingExists(Black) {
			break
		}
	}
}
