package engine

import (
	"context"
	"sort"
	"time"

	"xiangqi/internal/xiangqi"
)

const (
	scoreInf  = 1 << 30
	mateValue = 10_000_000

	// 时间检查按节点数打点，不追求精确到墙钟
	nodesPerClock = 4096

	// 静态搜索递归上限
	maxQuiesceDepth = 16

	nullMoveReduction = 2
)

// Search 在时限内为当前走子方挑一步棋。
// 无棋可走返回 ErrNoMove，调用方应判负。
// 可并发调用：每次调用的搜索状态独立，置换表内部同步。
func (e *Engine) Search(ctx context.Context, pos *xiangqi.Position, cfg SearchConfig) (SearchResult, error) {
	start := time.Now()
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.Difficulty.MaxDepth()
	}

	sp := pos.Clone()
	sp.EnsureHash()

	legal := sp.GenerateLegalMoves()
	if len(legal) == 0 {
		return SearchResult{TimeUsed: time.Since(start)}, ErrNoMove
	}

	// 绝杀剪枝：能直接吃掉对方将帅就不用想了
	enemyKing := sp.KingSquare(xiangqi.Opposite(sp.SideToMove))
	for _, mv := range legal {
		if mv.To == enemyKing {
			return SearchResult{
				BestMove: mv,
				Score:    mateValue,
				Depth:    1,
				Nodes:    1,
				TimeUsed: time.Since(start),
			}, nil
		}
	}

	// 最高难度先问远程开局库；任何失败都静默转本地搜索，绝不重试
	if cfg.Difficulty == DifficultyHard && e.book != nil {
		if mv, err := e.book.Query(ctx, sp.Encode()); err == nil {
			for _, lm := range legal {
				if lm.From == mv.From && lm.To == mv.To {
					return SearchResult{
						BestMove: mv,
						Depth:    0,
						TimeUsed: time.Since(start),
						FromBook: true,
					}, nil
				}
			}
		}
	}

	// 开局/残局定式直接给棋
	switch classifyPhase(sp) {
	case phaseOpening:
		if mv, ok := openingMove(sp, legal); ok {
			return SearchResult{BestMove: mv, TimeUsed: time.Since(start)}, nil
		}
	case phaseEndgame:
		if mv, ok := endgameMove(sp, legal); ok {
			return SearchResult{BestMove: mv, TimeUsed: time.Since(start)}, nil
		}
	}

	sr := e.newSearcher(ctx, cfg)

	// 任何深度都没搜完之前，随机合法步兜底
	best := legal[e.randomIndex(len(legal))]
	bestScore := 0
	bestDepth := 0

	for depth := 1; depth <= maxDepth; depth++ {
		mv, score := sr.searchRoot(sp, legal, depth)
		if sr.stopped {
			break // 该深度没搜完，丢弃，保留上一深度的答案
		}
		best = mv
		bestScore = score
		bestDepth = depth
		if score >= mateValue-maxPly {
			break
		}
	}

	return SearchResult{
		BestMove: best,
		Score:    bestScore,
		Depth:    bestDepth,
		Nodes:    sr.nodes,
		TimeUsed: time.Since(start),
	}, nil
}

// searchRoot 根节点：固定深度搜一轮
func (s *searcher) searchRoot(pos *xiangqi.Position, legal []xiangqi.Move, depth int) (xiangqi.Move, int) {
	moves := append([]xiangqi.Move{}, legal...)
	s.orderMoves(pos, moves, 0)

	alpha, beta := -scoreInf, scoreInf
	best := moves[0]

	for _, mv := range moves {
		undo := pos.MakeMove(mv)
		score := -s.negamax(pos, depth-1, 1, -beta, -alpha, false)
		pos.UndoMove(undo)
		if s.stopped {
			return best, alpha
		}
		if score > alpha {
			alpha = score
			best = mv
		}
	}

	if !s.noTT {
		s.tt.Store(pos.Hash, depth, alpha, ttExact, best)
	}
	return best, alpha
}

// negamax 标准带置换表的 alpha-beta
func (s *searcher) negamax(pos *xiangqi.Position, depth, ply, alpha, beta int, prevNull bool) int {
	s.nodes++
	if s.nodes%nodesPerClock == 0 {
		s.checkClock()
	}
	if s.stopped {
		return -scoreInf // 极端哨兵值，调用方整层丢弃
	}

	side := pos.SideToMove
	if !pos.KingExists(side) {
		return -(mateValue - ply)
	}
	if !pos.KingExists(xiangqi.Opposite(side)) {
		return mateValue - ply
	}

	origAlpha := alpha
	var ttMove xiangqi.Move
	if !s.noTT {
		if entry, ok := s.tt.Probe(pos.Hash); ok {
			ttMove = entry.Move
			if int(entry.Depth) >= depth {
				score := int(entry.Score)
				switch entry.Flag {
				case ttExact:
					return score
				case ttLower:
					if score > alpha {
						alpha = score
					}
				case ttUpper:
					if score < beta {
						beta = score
					}
				}
				if alpha >= beta {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiesce(pos, alpha, beta, ply, 0)
	}

	inCheck := pos.IsInCheck(side)

	// 空着裁剪：深度够、不在被将、上一手不是空着
	if depth >= 3 && !prevNull && !inCheck {
		pos.MakeNullMove()
		score := -s.negamax(pos, depth-1-nullMoveReduction, ply+1, -beta, -beta+1, true)
		pos.UndoNullMove()
		if s.stopped {
			return -scoreInf
		}
		if score >= beta {
			return beta
		}
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		// 无棋可走按被杀计（困毙与将死不区分）
		return -(mateValue - ply)
	}

	// 置换表着法排最前，其余照常排序
	ttFirst := false
	for i := range moves {
		if moves[i].From == ttMove.From && moves[i].To == ttMove.To {
			moves[0], moves[i] = moves[i], moves[0]
			ttFirst = true
			break
		}
	}
	if ttFirst {
		s.orderMoves(pos, moves[1:], ply)
	} else {
		s.orderMoves(pos, moves, ply)
	}

	best := -scoreInf
	var bestMove xiangqi.Move

	for _, mv := range moves {
		captured := pos.Board.Squares[mv.To]
		undo := pos.MakeMove(mv)
		score := -s.negamax(pos, depth-1, ply+1, -beta, -alpha, false)
		pos.UndoMove(undo)
		if s.stopped {
			return -scoreInf
		}

		if score > best {
			best = score
			bestMove = mv
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			// 非吃子好棋记进杀手表和历史表
			if captured == 0 {
				s.recordKiller(ply, mv)
				s.bumpHistory(mv, depth)
			}
			break
		}
	}

	if !s.noTT {
		flag := ttExact
		if best <= origAlpha {
			flag = ttUpper
		} else if best >= beta {
			flag = ttLower
		}
		s.tt.Store(pos.Hash, depth, best, flag, bestMove)
	}
	return best
}

// quiesce 静态搜索：站着不动的评估垫底，只递归吃子着法，防地平线误判。
func (s *searcher) quiesce(pos *xiangqi.Position, alpha, beta, ply, qdepth int) int {
	s.nodes++
	if s.nodes%nodesPerClock == 0 {
		s.checkClock()
	}
	if s.stopped {
		return -scoreInf
	}

	side := pos.SideToMove
	if !pos.KingExists(side) {
		return -(mateValue - ply)
	}
	if !pos.KingExists(xiangqi.Opposite(side)) {
		return mateValue - ply
	}

	stand := Evaluate(pos, side, s.diff)
	if stand >= beta {
		return beta
	}
	if stand > alpha {
		alpha = stand
	}
	if qdepth >= maxQuiesceDepth {
		return alpha
	}

	var captures []xiangqi.Move
	for _, mv := range pos.GenerateLegalMoves() {
		if pos.Board.Squares[mv.To] != 0 {
			captures = append(captures, mv)
		}
	}
	sort.SliceStable(captures, func(i, j int) bool {
		return victimValue(pos, captures[i]) > victimValue(pos, captures[j])
	})

	for _, mv := range captures {
		undo := pos.MakeMove(mv)
		score := -s.quiesce(pos, -beta, -alpha, ply+1, qdepth+1)
		pos.UndoMove(undo)
		if s.stopped {
			return -scoreInf
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// orderMoves 排序：吃子按被吃子价值优先，其次杀手着法，再按历史得分。
func (s *searcher) orderMoves(pos *xiangqi.Position, moves []xiangqi.Move, ply int) {
	for i := range moves {
		mv := &moves[i]
		if pos.Board.Squares[mv.To] != 0 {
			mv.Score = 1_000_000 + victimValue(pos, *mv)
		} else if s.isKiller(ply, *mv) {
			mv.Score = 900_000
		} else {
			mv.Score = s.historyScore(*mv)
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
}

func victimValue(pos *xiangqi.Position, mv xiangqi.Move) int {
	return pieceValue[pos.Board.Squares[mv.To].Type()]
}

func (s *searcher) checkClock() {
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.stopped = true
		return
	}
	if s.ctx != nil {
		select {
		case <-s.ctx.Done():
			s.stopped = true
		default:
		}
	}
}
