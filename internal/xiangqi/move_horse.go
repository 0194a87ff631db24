package xiangqi

// 马 8 种"日"字：终点偏移 + 马腿偏移
var horseLegMoves = [8]struct {
	Dr, Dc int // 终点
	Br, Bc int // 马腿
}{
	{-2, -1, -1, 0},
	{-2, +1, -1, 0},
	{-1, -2, 0, -1},
	{-1, +2, 0, +1},
	{+1, -2, 0, -1},
	{+1, +2, 0, +1},
	{+2, -1, +1, 0},
	{+2, +1, +1, 0},
}

func genHorseMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()

	for _, m := range horseLegMoves {
		r := row + m.Dr
		c := col + m.Dc
		if !onBoard(r, c) {
			continue
		}
		if p.Board.Squares[indexOf(row+m.Br, col+m.Bc)] != 0 {
			continue // 憋马腿
		}
		to := indexOf(r, c)
		dst := p.Board.Squares[to]
		if dst == 0 || dst.Side() != side {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}
