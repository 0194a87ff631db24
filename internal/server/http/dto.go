package httpserver

import (
	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

// 前端用的招法结构
type MoveDTO struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func moveToDTO(m xiangqi.Move) MoveDTO {
	return MoveDTO{From: m.From, To: m.To}
}

func movesToDTO(ms []xiangqi.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(m)
	}
	return out
}

func sideToInt(s xiangqi.Side) int {
	switch s {
	case xiangqi.Red:
		return 0
	case xiangqi.Black:
		return 1
	default:
		return -1
	}
}

// NewGame 请求：black_player 传 -1 表示人机对战
type NewGameRequest struct {
	RedPlayer   int64 `json:"red_player"`
	BlackPlayer int64 `json:"black_player"`
	Difficulty  int   `json:"difficulty"` // 0=初级 1=中级 2=高级
	TimeMs      int64 `json:"time_ms"`    // 引擎单步时限
}

type NewGameResponse struct {
	GameID     string    `json:"game_id"`
	Position   string    `json:"position"` // FEN 字符串
	ToMove     int       `json:"to_move"`  // 0=红, 1=黑
	LegalMoves []MoveDTO `json:"legal_moves"`
}

// Move 请求：coords 二选一 notation
type MoveRequest struct {
	GameID   string  `json:"game_id"`
	PlayerID int64   `json:"player_id"`
	Move     MoveDTO `json:"move"`
	Notation string  `json:"notation"` // 非空时按中文记谱解析
}

type MoveResponse struct {
	Position   string    `json:"position"`
	ToMove     int       `json:"to_move"`
	LegalMoves []MoveDTO `json:"legal_moves"`
	History    []string  `json:"history"`
	LastMove   *MoveDTO  `json:"last_move,omitempty"`
	AiMove     *MoveDTO  `json:"ai_move,omitempty"` // 人机对战时电脑的回手
	AiNotation string    `json:"ai_notation,omitempty"`
	Status     string    `json:"status"` // "playing" / "finished"
	Winner     int       `json:"winner"` // -1 未分胜负
}

type StateRequest struct {
	GameID string `json:"game_id"`
}

type StateResponse struct {
	Position   string    `json:"position"`
	ToMove     int       `json:"to_move"`
	LegalMoves []MoveDTO `json:"legal_moves"`
	History    []string  `json:"history"`
	Status     string    `json:"status"`
	Winner     int       `json:"winner"`
}

type ResignRequest struct {
	GameID   string `json:"game_id"`
	PlayerID int64  `json:"player_id"`
}

type ResignResponse struct {
	OK     bool `json:"ok"`
	Winner int  `json:"winner"`
}

type InviteRequest struct {
	Inviter int64 `json:"inviter"`
	Target  int64 `json:"target"`
}

type AcceptInviteRequest struct {
	PlayerID   int64 `json:"player_id"`
	Difficulty int   `json:"difficulty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func statusString(s game.Status) string {
	if s == game.StatusFinished {
		return "finished"
	}
	return "playing"
}
