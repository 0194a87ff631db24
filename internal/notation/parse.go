package notation

import (
	"fmt"
	"sort"

	"xiangqi/internal/xiangqi"
)

// Parse 把一句中文着法解析成 from/to。
// 只做记号解析与多子定位；走完会不会被将军之类的合法性由对局层校验。
func Parse(text string, pos *xiangqi.Position, side xiangqi.Side) (xiangqi.Move, error) {
	rs := normalize(text)
	if len(rs) < 2 || len(rs) > 4 {
		return xiangqi.Move{}, parseErr(TokenPiece, string(rs), "着法长度应为 2~4 个字")
	}

	// 前缀是位置描述符：前炮退二 / 中兵平五
	if d, ok := glyphToDescriptor[rs[0]]; ok {
		if len(rs) != 4 {
			return xiangqi.Move{}, parseErr(TokenAction, string(rs), "缺少动作或步数")
		}
		pt, ok := glyphToPieceType[rs[1]]
		if !ok {
			return xiangqi.Move{}, parseErr(TokenPiece, string(rs[1]), "不认识的棋子")
		}
		sq, err := resolveDescriptor(pos, side, pt, d, string(rs[0]))
		if err != nil {
			return xiangqi.Move{}, err
		}
		return resolveAction(pos, side, sq, rs[2], rs[3])
	}

	// 前缀是数字且第二个字是棋子：序数形式，一兵平五
	if v := numeralValue(rs[0]); v > 0 {
		if len(rs) != 4 {
			return xiangqi.Move{}, parseErr(TokenAction, string(rs), "缺少动作或步数")
		}
		pt, ok := glyphToPieceType[rs[1]]
		if !ok {
			return xiangqi.Move{}, parseErr(TokenPiece, string(rs[1]), "不认识的棋子")
		}
		seq := ordinalSequence(pos, side, pt)
		if len(seq) == 0 {
			return xiangqi.Move{}, parseErr(TokenPosition, string(rs[0]), "当前局面不适用序数定位")
		}
		if v > len(seq) {
			return xiangqi.Move{}, parseErr(TokenPosition, string(rs[0]), fmt.Sprintf("序数超界，同名棋子只有 %d 个", len(seq)))
		}
		return resolveAction(pos, side, seq[v-1], rs[2], rs[3])
	}

	pt, ok := glyphToPieceType[rs[0]]
	if !ok {
		return xiangqi.Move{}, parseErr(TokenPiece, string(rs[0]), "不认识的棋子")
	}
	group := pos.Board.PiecesOf(side, pt)
	if len(group) == 0 {
		return xiangqi.Move{}, parseErr(TokenPiece, string(rs[0]), "该方盘面上没有这个棋子")
	}

	switch len(rs) {
	case 2:
		// 双字简式：仕进 / 相退（同列成对的士象，动作方向即可定子）
		return resolveAbbrev(pos, side, pt, rs[0], rs[1], group)

	case 3:
		// 宽松式：炮平五（省略起始列，全组里恰有一子能走时接受）
		return resolveUnique(pos, side, group, rs[1], rs[2])

	default: // 4
		file := numeralValue(rs[1])
		if file == 0 {
			return xiangqi.Move{}, parseErr(TokenPosition, string(rs[1]), "不是列号")
		}
		col := fileToCol(side, file)
		var onFile []int
		for _, sq := range group {
			if xiangqi.ColOf(sq) == col {
				onFile = append(onFile, sq)
			}
		}
		if len(onFile) == 0 {
			return xiangqi.Move{}, parseErr(TokenPosition, string(rs[1]), "该列上没有这个棋子")
		}
		if len(onFile) == 1 {
			return resolveAction(pos, side, onFile[0], rs[2], rs[3])
		}
		// 同列多子却没写前后：按动作能否成立宽松消歧
		return resolveUnique(pos, side, onFile, rs[2], rs[3])
	}
}

// resolveDescriptor 在唯一的多子列里按 前/中/后 选子。
func resolveDescriptor(pos *xiangqi.Position, side xiangqi.Side, pt xiangqi.PieceType, d descriptor, token string) (int, error) {
	group := pos.Board.PiecesOf(side, pt)
	files := groupByFile(group)
	var multi [][]int
	for _, f := range sortedFiles(files, side) {
		if len(files[f]) >= 2 {
			multi = append(multi, files[f])
		}
	}
	if len(multi) == 0 {
		return -1, parseErr(TokenPosition, token, "没有同列的同名棋子")
	}
	if len(multi) > 1 {
		return -1, parseErr(TokenPosition, token, "多列有同名棋子，需用序数定位")
	}
	members := sortFrontToBack(multi[0], side)
	switch d {
	case descFront:
		return members[0], nil
	case descRear:
		return members[len(members)-1], nil
	case descMiddle:
		if len(members) != 3 {
			return -1, parseErr(TokenPosition, token, "只有三子同列才能用「中」")
		}
		return members[1], nil
	}
	return -1, parseErr(TokenPosition, token, "未知位置描述")
}

// ordinalSequence 构造序数定位的统一序列：
// 恰有两列各有 ≥2 个同名棋子时，按本方视角从右到左、每列从前到后连续编号；
// 仅一列 ≥2 时序列就是该列从前到后（用于一列超过三子的情形）。
func ordinalSequence(pos *xiangqi.Position, side xiangqi.Side, pt xiangqi.PieceType) []int {
	group := pos.Board.PiecesOf(side, pt)
	files := groupByFile(group)
	var multi [][]int
	for _, f := range sortedFiles(files, side) {
		if len(files[f]) >= 2 {
			multi = append(multi, sortFrontToBack(files[f], side))
		}
	}
	switch len(multi) {
	case 1:
		return multi[0]
	case 2:
		return append(append([]int{}, multi[0]...), multi[1]...)
	default:
		return nil
	}
}

// resolveAbbrev 处理士象双字简式：动作方向唯一确定哪只子、走到哪。
func resolveAbbrev(pos *xiangqi.Position, side xiangqi.Side, pt xiangqi.PieceType, pieceTok, actTok rune, group []int) (xiangqi.Move, error) {
	if pt != xiangqi.PieceAdvisor && pt != xiangqi.PieceElephant {
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "双字简式只适用于士象")
	}
	act, ok := glyphToAction[actTok]
	if !ok || act == actionLevel {
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "士象只能进或退")
	}

	rowSign := forwardSign(side)
	if act == actionRetreat {
		rowSign = -rowSign
	}
	step := 1
	if pt == xiangqi.PieceElephant {
		step = 2
	}

	var found []xiangqi.Move
	for _, sq := range group {
		r, c := xiangqi.RowOf(sq), xiangqi.ColOf(sq)
		for _, dc := range []int{-step, +step} {
			to := xiangqi.IndexOf(r+rowSign*step, c+dc)
			if to < 0 {
				continue
			}
			if pos.IsValidMove(sq, to) {
				found = append(found, xiangqi.Move{From: sq, To: to})
			}
		}
	}
	if len(found) == 0 {
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "没有子能这样走")
	}
	if len(found) > 1 {
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "动作不足以定子，请写全着法")
	}
	return found[0], nil
}

// resolveUnique 对候选集合逐个套动作，恰好一个走得通才接受。
func resolveUnique(pos *xiangqi.Position, side xiangqi.Side, candidates []int, actTok, argTok rune) (xiangqi.Move, error) {
	var found []xiangqi.Move
	var lastErr error
	for _, sq := range candidates {
		mv, err := resolveAction(pos, side, sq, actTok, argTok)
		if err != nil {
			lastErr = err
			continue
		}
		if pos.IsValidMove(mv.From, mv.To) {
			found = append(found, mv)
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}
	if len(found) == 0 {
		if lastErr != nil {
			return xiangqi.Move{}, lastErr
		}
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "没有子能这样走")
	}
	return xiangqi.Move{}, parseErr(TokenPosition, string(actTok), "多子都能这样走，需写明位置")
}

// resolveAction 把 动作+数值 套在指定棋子上，得出唯一目标格。
// 直线子（车炮兵帅）进退走步数、平走目标列；斜线子（马相仕）进退写目标列。
func resolveAction(pos *xiangqi.Position, side xiangqi.Side, sq int, actTok, argTok rune) (xiangqi.Move, error) {
	act, ok := glyphToAction[actTok]
	if !ok {
		return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "不是进/退/平")
	}
	arg := numeralValue(argTok)
	if arg == 0 {
		return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "不是 1~9 的数")
	}

	pc := pos.Board.Squares[sq]
	r, c := xiangqi.RowOf(sq), xiangqi.ColOf(sq)

	switch pc.Type() {
	case xiangqi.PieceChariot, xiangqi.PieceCannon, xiangqi.PieceSoldier, xiangqi.PieceGeneral:
		if act == actionLevel {
			col := fileToCol(side, arg)
			if col == c {
				return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "平到原列")
			}
			return xiangqi.Move{From: sq, To: xiangqi.IndexOf(r, col)}, nil
		}
		sign := forwardSign(side)
		if act == actionRetreat {
			sign = -sign
		}
		to := xiangqi.IndexOf(r+sign*arg, c)
		if to < 0 {
			return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "步数出界")
		}
		return xiangqi.Move{From: sq, To: to}, nil

	case xiangqi.PieceHorse, xiangqi.PieceElephant, xiangqi.PieceAdvisor:
		if act == actionLevel {
			return xiangqi.Move{}, parseErr(TokenAction, string(actTok), "斜线子不能平")
		}
		col := fileToCol(side, arg)
		dc := col - c
		var dr int
		switch pc.Type() {
		case xiangqi.PieceHorse:
			switch abs(dc) {
			case 1:
				dr = 2
			case 2:
				dr = 1
			default:
				return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "马到不了这一列")
			}
		case xiangqi.PieceElephant:
			if abs(dc) != 2 {
				return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "相象到不了这一列")
			}
			dr = 2
		case xiangqi.PieceAdvisor:
			if abs(dc) != 1 {
				return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "仕士到不了这一列")
			}
			dr = 1
		}
		sign := forwardSign(side)
		if act == actionRetreat {
			sign = -sign
		}
		to := xiangqi.IndexOf(r+sign*dr, col)
		if to < 0 {
			return xiangqi.Move{}, parseErr(TokenMagnitude, string(argTok), "目标出界")
		}
		return xiangqi.Move{From: sq, To: to}, nil
	}

	return xiangqi.Move{}, parseErr(TokenPiece, "", "未知兵种")
}

func groupByFile(group []int) map[int][]int {
	files := make(map[int][]int)
	for _, sq := range group {
		files[xiangqi.ColOf(sq)] = append(files[xiangqi.ColOf(sq)], sq)
	}
	return files
}

// sortedFiles 按本方视角从右到左（即列号 file 升序）排列有子的列。
func sortedFiles(files map[int][]int, side xiangqi.Side) []int {
	cols := make([]int, 0, len(files))
	for c := range files {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		return colToFile(side, cols[i]) < colToFile(side, cols[j])
	})
	return cols
}

// sortFrontToBack 同列棋子按前（靠近敌方）到后排序。
func sortFrontToBack(sqs []int, side xiangqi.Side) []int {
	out := append([]int{}, sqs...)
	sort.Slice(out, func(i, j int) bool {
		if side == xiangqi.Red {
			return xiangqi.RowOf(out[i]) < xiangqi.RowOf(out[j])
		}
		return xiangqi.RowOf(out[i]) > xiangqi.RowOf(out[j])
	})
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
