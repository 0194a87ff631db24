package xiangqi

// IsAttacked 判断 sq 这个格子是否被 bySide 这一方攻击。
// 采用走法模拟：只要对方任何一个棋子能合法地走到这个位置，就说明该位置被攻击。
// 象、士无法越过河界/出九宫将军，直接跳过。
func (p *Position) IsAttacked(sq int, bySide Side) bool {
	for s := 0; s < NumSquares; s++ {
		pc := p.Board.Squares[s]
		if pc == 0 || pc.Side() != bySide {
			continue
		}

		pt := pc.Type()
		if pt == PieceElephant || pt == PieceAdvisor {
			continue
		}

		var moves []Move
		switch pt {
		case PieceChariot:
			genChariotMoves(p, s, &moves)
		case PieceCannon:
			genCannonMoves(p, s, &moves)
		case PieceHorse:
			genHorseMoves(p, s, &moves)
		case PieceGeneral:
			genGeneralMoves(p, s, &moves)
		case PieceSoldier:
			genSoldierMoves(p, s, &moves)
		}

		for _, mv := range moves {
			if mv.To == sq {
				return true
			}
		}
	}
	return false
}

// IsInCheck 判断 side 这一方的将帅是否被将军
func (p *Position) IsInCheck(side Side) bool {
	kingSq := p.KingSquare(side)
	if kingSq == -1 {
		return false
	}
	return p.IsAttacked(kingSq, opposite(side))
}
