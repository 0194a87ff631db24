package xiangqi

// 车：横竖随便走
func genChariotMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range lineDirs {
		r, c := row+d[0], col+d[1]
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc == 0 {
				*moves = append(*moves, Move{From: from, To: to})
			} else {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 炮：车走法 + 隔一子吃
func genCannonMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range lineDirs {
		r, c := row+d[0], col+d[1]

		// 走子阶段：直到第一个棋子（炮架）
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc == 0 {
				*moves = append(*moves, Move{From: from, To: to})
				r += d[0]
				c += d[1]
				continue
			}
			r += d[0]
			c += d[1]
			break
		}

		// 吃子阶段：越过炮架，遇到第一子可吃
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc != 0 {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 相/象：田字 + 塞象眼 + 不过河
func genElephantMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range diagDirs {
		r := row + 2*d[0]
		c := col + 2*d[1]
		if !onBoard(r, c) {
			continue
		}
		// 象眼
		if p.Board.Squares[indexOf(row+d[0], col+d[1])] != 0 {
			continue
		}
		// 不能过河
		if crossedRiver(side, r) {
			continue
		}
		dst := p.Board.Squares[indexOf(r, c)]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: indexOf(r, c)})
		}
	}
}

// 仕/士：九宫内斜走一格
func genAdvisorMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range diagDirs {
		r := row + d[0]
		c := col + d[1]
		if !onBoard(r, c) {
			continue
		}
		if !inPalace(side, r, c) {
			continue
		}
		dst := p.Board.Squares[indexOf(r, c)]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: indexOf(r, c)})
		}
	}
}

// 帅/将：九宫内上下左右一格（对脸规则由上层统一拦截）
func genGeneralMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range lineDirs {
		r := row + d[0]
		c := col + d[1]
		if !onBoard(r, c) {
			continue
		}
		if !inPalace(side, r, c) {
			continue
		}
		dst := p.Board.Squares[indexOf(r, c)]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: indexOf(r, c)})
		}
	}
}
