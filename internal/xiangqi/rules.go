package xiangqi

// IsValidMove 判断 from->to 是否符合该棋子的走法规则。
// 只看几何与阻挡，不管轮到谁走、也不管走完会不会被将军/对脸——那些是对局层的事。
func (p *Position) IsValidMove(from, to int) bool {
	if from < 0 || from >= NumSquares || to < 0 || to >= NumSquares || from == to {
		return false
	}
	pc := p.Board.Squares[from]
	if pc == 0 {
		return false
	}
	dst := p.Board.Squares[to]
	if dst != 0 && dst.Side() == pc.Side() {
		return false
	}

	side := pc.Side()
	fr, fc := rowOf(from), colOf(from)
	tr, tc := rowOf(to), colOf(to)
	dr, dc := tr-fr, tc-fc

	switch pc.Type() {
	case PieceGeneral:
		if !inPalace(side, tr, tc) {
			return false
		}
		return abs(dr)+abs(dc) == 1

	case PieceAdvisor:
		if !inPalace(side, tr, tc) {
			return false
		}
		return abs(dr) == 1 && abs(dc) == 1

	case PieceElephant:
		if abs(dr) != 2 || abs(dc) != 2 {
			return false
		}
		if crossedRiver(side, tr) {
			return false
		}
		// 象眼
		return p.Board.Squares[indexOf(fr+dr/2, fc+dc/2)] == 0

	case PieceHorse:
		if !(abs(dr) == 1 && abs(dc) == 2 || abs(dr) == 2 && abs(dc) == 1) {
			return false
		}
		// 马腿在“长边”方向的第一格
		var br, bc int
		if abs(dr) == 2 {
			br, bc = fr+dr/2, fc
		} else {
			br, bc = fr, fc+dc/2
		}
		return p.Board.Squares[indexOf(br, bc)] == 0

	case PieceChariot:
		if dr != 0 && dc != 0 {
			return false
		}
		return p.countBetween(from, to) == 0

	case PieceCannon:
		if dr != 0 && dc != 0 {
			return false
		}
		if dst == 0 {
			return p.countBetween(from, to) == 0
		}
		// 吃子必须隔恰好一个炮架
		return p.countBetween(from, to) == 1

	case PieceSoldier:
		if abs(dr)+abs(dc) != 1 {
			return false
		}
		if dr == pawnDir(side) {
			return true
		}
		// 横移只有过河后才允许；永远不能后退
		return dr == 0 && crossedRiver(side, fr)
	}

	return false
}

// Attacks 判断 from 上的子按走法规则能否打到 to：只看几何与阻挡，
// 不管 to 上站的是谁（保护自己人的关系也算），炮一律按吃子口径要求恰好一个炮架。
func (p *Position) Attacks(from, to int) bool {
	if from < 0 || from >= NumSquares || to < 0 || to >= NumSquares || from == to {
		return false
	}
	pc := p.Board.Squares[from]
	if pc == 0 {
		return false
	}

	side := pc.Side()
	fr, fc := rowOf(from), colOf(from)
	tr, tc := rowOf(to), colOf(to)
	dr, dc := tr-fr, tc-fc

	switch pc.Type() {
	case PieceGeneral:
		return inPalace(side, tr, tc) && abs(dr)+abs(dc) == 1
	case PieceAdvisor:
		return inPalace(side, tr, tc) && abs(dr) == 1 && abs(dc) == 1
	case PieceElephant:
		if abs(dr) != 2 || abs(dc) != 2 || crossedRiver(side, tr) {
			return false
		}
		return p.Board.Squares[indexOf(fr+dr/2, fc+dc/2)] == 0
	case PieceHorse:
		if !(abs(dr) == 1 && abs(dc) == 2 || abs(dr) == 2 && abs(dc) == 1) {
			return false
		}
		if abs(dr) == 2 {
			return p.Board.Squares[indexOf(fr+dr/2, fc)] == 0
		}
		return p.Board.Squares[indexOf(fr, fc+dc/2)] == 0
	case PieceChariot:
		if dr != 0 && dc != 0 {
			return false
		}
		return p.countBetween(from, to) == 0
	case PieceCannon:
		if dr != 0 && dc != 0 {
			return false
		}
		return p.countBetween(from, to) == 1
	case PieceSoldier:
		if abs(dr)+abs(dc) != 1 {
			return false
		}
		if dr == pawnDir(side) {
			return true
		}
		return dr == 0 && crossedRiver(side, fr)
	}
	return false
}

// countBetween 数同一行/列上 from、to 之间（不含端点）的棋子数。
func (p *Position) countBetween(from, to int) int {
	fr, fc := rowOf(from), colOf(from)
	tr, tc := rowOf(to), colOf(to)
	n := 0
	if fr == tr {
		lo, hi := fc, tc
		if lo > hi {
			lo, hi = hi, lo
		}
		for c := lo + 1; c < hi; c++ {
			if p.Board.Squares[indexOf(fr, c)] != 0 {
				n++
			}
		}
	} else if fc == tc {
		lo, hi := fr, tr
		if lo > hi {
			lo, hi = hi, lo
		}
		for r := lo + 1; r < hi; r++ {
			if p.Board.Squares[indexOf(r, fc)] != 0 {
				n++
			}
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
