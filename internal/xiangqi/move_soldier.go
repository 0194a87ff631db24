package xiangqi

func genSoldierMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	pc := p.Board.Squares[from]
	if pc == 0 {
		return
	}
	side := pc.Side()
	dir := pawnDir(side)

	// 前一格：过河前后都能走
	r1 := row + dir
	if onBoard(r1, col) {
		to := indexOf(r1, col)
		dst := p.Board.Squares[to]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}

	// 过河后才有左右一格，永远不能后退
	if !crossedRiver(side, row) {
		return
	}
	for _, dc := range []int{-1, +1} {
		c2 := col + dc
		if !onBoard(row, c2) {
			continue
		}
		to := indexOf(row, c2)
		dst := p.Board.Squares[to]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}
