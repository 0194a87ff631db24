package engine

import (
	"xiangqi/internal/xiangqi"
)

// ======= 基础子力估值 =======

var pieceValue = map[xiangqi.PieceType]int{
	xiangqi.PieceGeneral:  1_000_000,
	xiangqi.PieceChariot:  500,
	xiangqi.PieceCannon:   280,
	xiangqi.PieceHorse:    270,
	xiangqi.PieceElephant: 110,
	xiangqi.PieceAdvisor:  110,
	xiangqi.PieceSoldier:  60,
}

// 过河后各兵种的侵略性权重（高难度的攻势项用）
var aggressionWeight = map[xiangqi.PieceType]int{
	xiangqi.PieceChariot: 10,
	xiangqi.PieceCannon:  8,
	xiangqi.PieceHorse:   8,
	xiangqi.PieceSoldier: 5,
}

const (
	mobilityWeight   = 2
	protectionWeight = 5
	centerWeight     = 6
	spacingWeight    = 1
	checkPathWeight  = 12
)

// Evaluate 走子方视角：score = 自己 - 对方。每个叶子从头算。
func Evaluate(pos *xiangqi.Position, side xiangqi.Side, diff Difficulty) int {
	return sideScore(pos, side, diff) - sideScore(pos, xiangqi.Opposite(side), diff)
}

func sideScore(pos *xiangqi.Position, side xiangqi.Side, diff Difficulty) int {
	score := 0
	enemyKing := pos.KingSquare(xiangqi.Opposite(side))

	var own []int
	for sq := 0; sq < xiangqi.NumSquares; sq++ {
		pc := pos.Board.Squares[sq]
		if pc == 0 || pc.Side() != side {
			continue
		}
		own = append(own, sq)

		pt := pc.Type()
		score += pieceValue[pt]
		score += positionalBonus(pos, side, pt, sq, enemyKing)

		// 高难度：压进对方半场的子按兵种加攻势分
		if diff == DifficultyHard && xiangqi.CrossedRiver(side, xiangqi.RowOf(sq)) {
			score += aggressionWeight[pt]
		}
	}

	// 机动性：合法落点数
	moves := pos.GenerateLegalMovesForSide(side)
	score += len(moves) * mobilityWeight

	// 相互保护数
	score += protectionCount(pos, own) * protectionWeight

	// 中心控制：河界两岸中路六格
	score += centerControl(pos, own) * centerWeight

	// 子力间距协调：大子之间既不扎堆也不脱节
	score += spacingScore(own) * spacingWeight

	// 高难度：下一手能将军的路数
	if diff == DifficultyHard && enemyKing >= 0 {
		score += checkPaths(pos, moves, enemyKing) * checkPathWeight
	}

	return score
}

// positionalBonus 各兵种的位置加成（从 side 视角）
func positionalBonus(pos *xiangqi.Position, side xiangqi.Side, pt xiangqi.PieceType, sq, enemyKing int) int {
	r, c := xiangqi.RowOf(sq), xiangqi.ColOf(sq)
	centerDist := abs(c - 4)
	centerBonus := 4 - centerDist

	switch pt {
	case xiangqi.PieceSoldier:
		b := 0
		if xiangqi.CrossedRiver(side, r) {
			b += 25
			// 离对方将帅越近越值钱
			if enemyKing >= 0 {
				d := abs(r-xiangqi.RowOf(enemyKing)) + abs(c-xiangqi.ColOf(enemyKing))
				b += (12 - d) * 3
			}
		}
		return b

	case xiangqi.PieceCannon:
		b := centerBonus * 3
		// 中路炮加分，有炮架再加
		if c == 4 {
			b += 12
		}
		b += screenCount(pos, sq) * 2
		return b

	case xiangqi.PieceHorse:
		// 活动格数：被憋的马一文不值
		n := 0
		for to := 0; to < xiangqi.NumSquares; to++ {
			if pos.IsValidMove(sq, to) {
				n++
			}
		}
		return n * 4

	case xiangqi.PieceChariot:
		b := centerBonus * 2
		// 压在对方兵线或底线上的车
		var soldierRow, bottomRow int
		if side == xiangqi.Red {
			soldierRow, bottomRow = 3, 0
		} else {
			soldierRow, bottomRow = 6, 9
		}
		if r == soldierRow {
			b += 10
		}
		if r == bottomRow {
			b += 8
		}
		return b

	case xiangqi.PieceAdvisor, xiangqi.PieceElephant:
		// 守着家就好
		if !xiangqi.CrossedRiver(side, r) && centerDist <= 2 {
			return 6
		}
		return 0

	case xiangqi.PieceGeneral:
		// 九宫中路最安稳
		if c == 4 {
			return 8
		}
		return 0
	}
	return 0
}

// screenCount 炮在四个方向上第一个挡子（潜在炮架）的数量
func screenCount(pos *xiangqi.Position, sq int) int {
	r, c := xiangqi.RowOf(sq), xiangqi.ColOf(sq)
	dirs := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	n := 0
	for _, d := range dirs {
		for rr, cc := r+d[0], c+d[1]; ; rr, cc = rr+d[0], cc+d[1] {
			to := xiangqi.IndexOf(rr, cc)
			if to < 0 {
				break
			}
			if pos.Board.Squares[to] != 0 {
				n++
				break
			}
		}
	}
	return n
}

// protectionCount 一方棋子被自己人保护的对数
func protectionCount(pos *xiangqi.Position, own []int) int {
	n := 0
	for _, a := range own {
		for _, b := range own {
			if a == b {
				continue
			}
			if pos.Attacks(a, b) {
				n++
			}
		}
	}
	return n
}

// centerControl 打到中心六格（河界两岸中路）的子数
func centerControl(pos *xiangqi.Position, own []int) int {
	n := 0
	for _, r := range []int{4, 5} {
		for _, c := range []int{3, 4, 5} {
			center := xiangqi.IndexOf(r, c)
			for _, sq := range own {
				if pos.Attacks(sq, center) {
					n++
					break
				}
			}
		}
	}
	return n
}

// spacingScore 大子两两间距离 4 左右最协调
func spacingScore(own []int) int {
	s := 0
	for i := 0; i < len(own); i++ {
		for j := i + 1; j < len(own); j++ {
			d := abs(xiangqi.RowOf(own[i])-xiangqi.RowOf(own[j])) +
				abs(xiangqi.ColOf(own[i])-xiangqi.ColOf(own[j]))
			s += 4 - abs(d-4)
		}
	}
	return s
}

// checkPaths 下一手能将军的着法数
func checkPaths(pos *xiangqi.Position, moves []xiangqi.Move, enemyKing int) int {
	n := 0
	for _, mv := range moves {
		if mv.To == enemyKing {
			n++
			continue
		}
		undo := pos.MakeMove(mv)
		if pos.IsAttacked(enemyKing, pos.Board.Squares[mv.To].Side()) {
			n++
		}
		pos.UndoMove(undo)
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
