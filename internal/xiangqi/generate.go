package xiangqi

// GeneratePseudoMovesForSide 生成指定一方的伪合法走法
func (p *Position) GeneratePseudoMovesForSide(side Side) []Move {
	var moves []Move
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc == 0 || pc.Side() != side {
			continue
		}
		switch pc.Type() {
		case PieceChariot:
			genChariotMoves(p, sq, &moves)
		case PieceCannon:
			genCannonMoves(p, sq, &moves)
		case PieceHorse:
			genHorseMoves(p, sq, &moves)
		case PieceElephant:
			genElephantMoves(p, sq, &moves)
		case PieceAdvisor:
			genAdvisorMoves(p, sq, &moves)
		case PieceGeneral:
			genGeneralMoves(p, sq, &moves)
		case PieceSoldier:
			genSoldierMoves(p, sq, &moves)
		}
	}
	return moves
}

// GeneratePseudoMoves 伪合法（不考虑王对脸）
func (p *Position) GeneratePseudoMoves() []Move {
	return p.GeneratePseudoMovesForSide(p.SideToMove)
}

// GenerateLegalMovesForSide 过滤掉会造成王对脸的走法。
// 直接吃掉对方将帅的走法绝对合法：对手已经没了，不存在后续非法状态。
func (p *Position) GenerateLegalMovesForSide(side Side) []Move {
	pseudo := p.GeneratePseudoMovesForSide(side)
	out := make([]Move, 0, len(pseudo))
	for _, mv := range pseudo {
		target := p.Board.Squares[mv.To]
		if target != 0 && target.Type() == PieceGeneral {
			out = append(out, mv)
			continue
		}
		undo := p.MakeMove(mv)
		face := p.KingsFace()
		p.UndoMove(undo)
		if face {
			continue
		}
		out = append(out, mv)
	}
	return out
}

// GenerateLegalMoves 生成当前走子方的合法走法
func (p *Position) GenerateLegalMoves() []Move {
	return p.GenerateLegalMovesForSide(p.SideToMove)
}

// MakeMove 落子并增量更新 Zobrist；返回 Undo 供回退。
// 这里默认传进来的就是合法招（由上层检查）。
func (p *Position) MakeMove(m Move) Undo {
	pc := p.Board.Squares[m.From]
	captured := p.Board.Squares[m.To]
	undo := Undo{Move: m, Captured: captured, PrevHash: p.Hash}

	p.Board.Squares[m.To] = pc
	p.Board.Squares[m.From] = 0

	// 增量 Zobrist：移除 from 的子、移除被吃子（若有）、加入 to 的子、切换走子方
	h := p.Hash
	h ^= pieceHashKey(pc, m.From)
	if captured != 0 {
		h ^= pieceHashKey(captured, m.To)
	}
	h ^= pieceHashKey(pc, m.To)
	h ^= zobristSide
	p.Hash = h
	p.SideToMove = opposite(p.SideToMove)

	return undo
}

// UndoMove 回退 MakeMove
func (p *Position) UndoMove(u Undo) {
	pc := p.Board.Squares[u.Move.To]
	p.Board.Squares[u.Move.From] = pc
	p.Board.Squares[u.Move.To] = u.Captured
	p.Hash = u.PrevHash
	p.SideToMove = opposite(p.SideToMove)
}

// MakeNullMove 让一手：只换走子方。空着裁剪用。
func (p *Position) MakeNullMove() {
	p.SideToMove = opposite(p.SideToMove)
	p.Hash ^= zobristSide
}

// UndoNullMove 取消让手
func (p *Position) UndoNullMove() {
	p.SideToMove = opposite(p.SideToMove)
	p.Hash ^= zobristSide
}

// ApplyMove 拷贝一个新局面并落子（对局层用；搜索热路径用 MakeMove/UndoMove）。
func (p *Position) ApplyMove(m Move) (*Position, bool) {
	if m.From < 0 || m.From >= NumSquares || m.To < 0 || m.To >= NumSquares {
		return nil, false
	}
	pc := p.Board.Squares[m.From]
	if pc == 0 || pc.Side() != p.SideToMove {
		return nil, false
	}
	np := p.Clone()
	np.MakeMove(m)
	return np, true
}

// Clone 整盘深拷贝
func (p *Position) Clone() *Position {
	np := *p
	return &np
}
