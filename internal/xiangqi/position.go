package xiangqi

// KingSquare 找一方将帅的格号；没有返回 -1。
func (p *Position) KingSquare(side Side) int {
	for sq, pc := range p.Board.Squares {
		if pc != 0 && pc.Type() == PieceGeneral && pc.Side() == side {
			return sq
		}
	}
	return -1
}

func (p *Position) KingExists(side Side) bool {
	return p.KingSquare(side) != -1
}

// KingsFace 判断双方将帅是否同列对脸（中间无子）。对脸非法。
func (p *Position) KingsFace() bool {
	redKing := p.KingSquare(Red)
	blackKing := p.KingSquare(Black)
	if redKing == -1 || blackKing == -1 {
		// 有一方王已经没了：对局终结，但不存在对脸问题
		return false
	}

	rr, rc := rowOf(redKing), colOf(redKing)
	br, bc := rowOf(blackKing), colOf(blackKing)
	if rc != bc {
		return false
	}

	if rr > br {
		rr, br = br, rr
	}
	for r := rr + 1; r < br; r++ {
		if p.Board.Squares[indexOf(r, rc)] != 0 {
			return false // 中间有挡子
		}
	}
	return true
}
