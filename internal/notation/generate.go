package notation

import (
	"errors"
	"fmt"

	"xiangqi/internal/xiangqi"
)

var ErrNotExpressible = errors.New("notation: move not expressible")

// Generate 把一步棋写成中文着法，挑当前盘面真正需要的最短消歧前缀，
// 保证 Parse(Generate(m)) == m。
func Generate(pos *xiangqi.Position, mv xiangqi.Move) (string, error) {
	if mv.From < 0 || mv.From >= xiangqi.NumSquares || mv.To < 0 || mv.To >= xiangqi.NumSquares {
		return "", ErrNotExpressible
	}
	pc := pos.Board.Squares[mv.From]
	if pc == 0 {
		return "", ErrNotExpressible
	}
	side := pc.Side()
	pt := pc.Type()

	actTok, argTok, err := actionTokens(side, pt, mv)
	if err != nil {
		return "", err
	}

	glyph := redGlyph[pt]
	if side == xiangqi.Black {
		glyph = blackGlyph[pt]
	}

	fc := xiangqi.ColOf(mv.From)
	group := pos.Board.PiecesOf(side, pt)
	var onFile []int
	for _, sq := range group {
		if xiangqi.ColOf(sq) == fc {
			onFile = append(onFile, sq)
		}
	}

	// 本列只有自己：标准四字形式，棋子+列+动作+数
	if len(onFile) <= 1 {
		fileTok := numeralGlyph(side, colToFile(side, fc))
		return fmt.Sprintf("%c%c%c%c", glyph, fileTok, actTok, argTok), nil
	}

	// 士象成对同列：动作方向本身能定子时用双字简式
	if pt == xiangqi.PieceAdvisor || pt == xiangqi.PieceElephant {
		if abbrev, ok := tryAbbrev(pos, side, pt, glyph, actTok, mv, group); ok {
			return abbrev, nil
		}
	}

	// 序数形式：恰有两列各 ≥2 子，或一列超过三子
	seq := ordinalSequence(pos, side, pt)
	multiFiles := countMultiFiles(group)
	if multiFiles == 2 || len(onFile) > 3 {
		for i, sq := range seq {
			if sq == mv.From {
				ordTok := numeralGlyph(side, i+1)
				return fmt.Sprintf("%c%c%c%c", ordTok, glyph, actTok, argTok), nil
			}
		}
		return "", ErrNotExpressible
	}

	// 前/中/后
	members := sortFrontToBack(onFile, side)
	var desc descriptor
	for i, sq := range members {
		if sq != mv.From {
			continue
		}
		switch {
		case i == 0:
			desc = descFront
		case i == len(members)-1:
			desc = descRear
		default:
			desc = descMiddle
		}
	}
	if desc == descNone {
		return "", ErrNotExpressible
	}
	return fmt.Sprintf("%c%c%c%c", descriptorGlyph[desc], glyph, actTok, argTok), nil
}

// actionTokens 选动作字与数值字：直线子进退写步数，斜线子进退写目标列，平写目标列。
func actionTokens(side xiangqi.Side, pt xiangqi.PieceType, mv xiangqi.Move) (rune, rune, error) {
	fr, fc := xiangqi.RowOf(mv.From), xiangqi.ColOf(mv.From)
	tr, tc := xiangqi.RowOf(mv.To), xiangqi.ColOf(mv.To)

	if fr == tr {
		if fc == tc {
			return 0, 0, ErrNotExpressible
		}
		switch pt {
		case xiangqi.PieceHorse, xiangqi.PieceElephant, xiangqi.PieceAdvisor:
			return 0, 0, ErrNotExpressible // 斜线子不存在平移
		}
		return actionGlyph[actionLevel], numeralGlyph(side, colToFile(side, tc)), nil
	}

	act := actionAdvance
	if (tr-fr)*forwardSign(side) < 0 {
		act = actionRetreat
	}

	switch pt {
	case xiangqi.PieceChariot, xiangqi.PieceCannon, xiangqi.PieceSoldier, xiangqi.PieceGeneral:
		if fc != tc {
			return 0, 0, ErrNotExpressible
		}
		return actionGlyph[act], numeralGlyph(side, abs(tr-fr)), nil
	default:
		return actionGlyph[act], numeralGlyph(side, colToFile(side, tc)), nil
	}
}

// tryAbbrev 双字简式只有在动作唯一指向这步棋时才用。
func tryAbbrev(pos *xiangqi.Position, side xiangqi.Side, pt xiangqi.PieceType, glyph, actTok rune, mv xiangqi.Move, group []int) (string, bool) {
	got, err := resolveAbbrev(pos, side, pt, glyph, actTok, group)
	if err != nil || got.From != mv.From || got.To != mv.To {
		return "", false
	}
	return fmt.Sprintf("%c%c", glyph, actTok), true
}

// countMultiFiles 数有 ≥2 个同名棋子的列数
func countMultiFiles(group []int) int {
	n := 0
	for _, members := range groupByFile(group) {
		if len(members) >= 2 {
			n++
		}
	}
	return n
}
