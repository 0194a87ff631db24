package engine

import (
	"sync"

	"xiangqi/internal/xiangqi"
)

type gamePhase int

const (
	phaseMiddle gamePhase = iota
	phaseOpening
	phaseEndgame
)

var (
	initialOnce  sync.Once
	initialBoard xiangqi.Board
)

func initialSquares() *xiangqi.Board {
	initialOnce.Do(func() {
		initialBoard = xiangqi.NewInitialPosition().Board
	})
	return &initialBoard
}

// classifyPhase 开局=几乎没动过；残局=盘面剩子很少
func classifyPhase(pos *xiangqi.Position) gamePhase {
	total := pos.Board.CountPieces(xiangqi.NoSide)
	if total <= 10 {
		return phaseEndgame
	}
	init := initialSquares()
	unmoved := 0
	for sq := 0; sq < xiangqi.NumSquares; sq++ {
		if init.Squares[sq] != 0 && pos.Board.Squares[sq] == init.Squares[sq] {
			unmoved++
		}
	}
	if unmoved >= 28 {
		return phaseOpening
	}
	return phaseMiddle
}

// openingMove 按定式挑一步开局着法：当头炮 > 跳马 > 挺兵。挑不到返回 false。
func openingMove(pos *xiangqi.Position, legal []xiangqi.Move) (xiangqi.Move, bool) {
	side := pos.SideToMove

	// 1. 炮平中路
	for _, mv := range legal {
		pc := pos.Board.Squares[mv.From]
		if pc.Type() != xiangqi.PieceCannon {
			continue
		}
		if xiangqi.RowOf(mv.From) == xiangqi.RowOf(mv.To) && xiangqi.ColOf(mv.To) == 4 {
			return mv, true
		}
	}

	// 2. 马往中心跳（目的列 2 或 6，且向前）
	for _, mv := range legal {
		pc := pos.Board.Squares[mv.From]
		if pc.Type() != xiangqi.PieceHorse {
			continue
		}
		tc := xiangqi.ColOf(mv.To)
		if tc != 2 && tc != 6 {
			continue
		}
		if advancing(side, mv) {
			return mv, true
		}
	}

	// 3. 边兵或中兵前挺
	for _, mv := range legal {
		pc := pos.Board.Squares[mv.From]
		if pc.Type() != xiangqi.PieceSoldier {
			continue
		}
		fc := xiangqi.ColOf(mv.From)
		if (fc == 0 || fc == 4 || fc == 8) && advancing(side, mv) {
			return mv, true
		}
	}

	return xiangqi.Move{}, false
}

// endgameMove 残局直取对方将帅：能吃就吃，能将就将，不然选能拉近距离的一步。
// 没有任何一步能缩短距离时放弃，交还给完整搜索。
func endgameMove(pos *xiangqi.Position, legal []xiangqi.Move) (xiangqi.Move, bool) {
	side := pos.SideToMove
	enemyKing := pos.KingSquare(xiangqi.Opposite(side))
	if enemyKing < 0 {
		return xiangqi.Move{}, false
	}

	// 1. 直接吃将
	for _, mv := range legal {
		if mv.To == enemyKing {
			return mv, true
		}
	}

	// 2. 将军
	for _, mv := range legal {
		undo := pos.MakeMove(mv)
		check := pos.IsAttacked(enemyKing, side)
		pos.UndoMove(undo)
		if check {
			return mv, true
		}
	}

	// 3. 缩短到对方将帅的曼哈顿距离
	best := xiangqi.Move{}
	bestGain := 0
	for _, mv := range legal {
		from := manhattan(mv.From, enemyKing)
		to := manhattan(mv.To, enemyKing)
		if gain := from - to; gain > bestGain {
			bestGain = gain
			best = mv
		}
	}
	if bestGain > 0 {
		return best, true
	}
	return xiangqi.Move{}, false
}

func advancing(side xiangqi.Side, mv xiangqi.Move) bool {
	dr := xiangqi.RowOf(mv.To) - xiangqi.RowOf(mv.From)
	if side == xiangqi.Red {
		return dr < 0
	}
	return dr > 0
}

func manhattan(a, b int) int {
	return abs(xiangqi.RowOf(a)-xiangqi.RowOf(b)) + abs(xiangqi.ColOf(a)-xiangqi.ColOf(b))
}
