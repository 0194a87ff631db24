package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"xiangqi/internal/engine"
	"xiangqi/internal/notation"
	"xiangqi/internal/server/game"
	"xiangqi/internal/xiangqi"
)

const defaultSearchTime = 3 * time.Second

// Handler 实现 http.Handler，用于 /api/* 路由。
// 目录和引擎都从外面注入，不搞包级状态。
type Handler struct {
	dir    *game.Directory
	eng    *engine.Engine
	logger *zap.Logger
}

func NewHandler(dir *game.Directory, eng *engine.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dir: dir, eng: eng, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/new_game":
		h.handleNewGame(w, r)
	case "/api/move":
		h.handleMove(w, r)
	case "/api/resign":
		h.handleResign(w, r)
	case "/api/state":
		h.handleState(w, r)
	case "/api/invite":
		h.handleInvite(w, r)
	case "/api/accept_invite":
		h.handleAcceptInvite(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("writeJSON", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// errorStatus 把领域错误映射到 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidNotation),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrPieceNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func winnerInt(st game.StateView) int {
	if st.Status != game.StatusFinished {
		return -1
	}
	return sideToInt(st.Winner)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	searchTime := defaultSearchTime
	if req.TimeMs > 0 {
		searchTime = time.Duration(req.TimeMs) * time.Millisecond
	}
	black := req.BlackPlayer
	if black == 0 {
		black = game.AIPlayer
	}

	s := h.dir.CreateGame(req.RedPlayer, black, game.Config{
		Difficulty: req.Difficulty,
		SearchTime: searchTime,
	})

	pos := s.ClonePosition()
	h.writeJSON(w, NewGameResponse{
		GameID:     s.ID,
		Position:   pos.Encode(),
		ToMove:     sideToInt(pos.SideToMove),
		LegalMoves: movesToDTO(pos.GenerateLegalMoves()),
	})
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	s, err := h.dir.Get(req.GameID)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	if req.Notation != "" {
		err = s.MoveByNotation(req.PlayerID, req.Notation)
	} else {
		if side := s.SideOf(req.PlayerID); side == xiangqi.NoSide || side != s.TurnOf() {
			writeError(w, http.StatusConflict, game.ErrNotYourTurn.Error())
			return
		}
		err = s.Move(req.Move.From, req.Move.To)
	}
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	var resp MoveResponse

	// 人机对战且对局未结束：电脑立刻回一手
	st := s.State()
	if st.Status == game.StatusPlaying && st.BlackPlayer == game.AIPlayer &&
		st.Turn == xiangqi.Black {
		aiMove, aiText, aiErr := h.aiReply(r.Context(), s)
		if aiErr != nil {
			if errors.Is(aiErr, game.ErrAIUnavailable) {
				// 电脑无棋可走，人类获胜
				s.Finish(xiangqi.Red)
			} else {
				h.logger.Warn("引擎回手失败", zap.String("game_id", s.ID), zap.Error(aiErr))
			}
		} else {
			resp.AiMove = &MoveDTO{From: aiMove.From, To: aiMove.To}
			resp.AiNotation = aiText
		}
		st = s.State()
	}

	resp.Position = st.Position.Encode()
	resp.ToMove = sideToInt(st.Position.SideToMove)
	resp.LegalMoves = movesToDTO(st.Position.GenerateLegalMoves())
	resp.History = st.History
	if st.LastMove != nil {
		d := moveToDTO(*st.LastMove)
		resp.LastMove = &d
	}
	resp.Status = statusString(st.Status)
	resp.Winner = winnerInt(st)
	h.writeJSON(w, resp)
}

// aiReply 为电脑搜一手并落子，返回着法和记谱。
func (h *Handler) aiReply(ctx context.Context, s *game.Session) (xiangqi.Move, string, error) {
	pos := s.ClonePosition()
	cfg := engine.SearchConfig{
		Difficulty: engine.Difficulty(s.Config.Difficulty),
		TimeLimit:  s.Config.SearchTime,
	}

	res, err := h.eng.Search(ctx, pos, cfg)
	if err != nil {
		if errors.Is(err, engine.ErrNoMove) {
			return xiangqi.Move{}, "", game.ErrAIUnavailable
		}
		return xiangqi.Move{}, "", err
	}

	text, _ := notation.Generate(s.ClonePosition(), res.BestMove)
	if err := s.Move(res.BestMove.From, res.BestMove.To); err != nil {
		return xiangqi.Move{}, "", err
	}
	return res.BestMove, text, nil
}

func (h *Handler) handleResign(w http.ResponseWriter, r *http.Request) {
	var req ResignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	s, err := h.dir.Get(req.GameID)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	ok := s.Resign(req.PlayerID)
	h.writeJSON(w, ResignResponse{OK: ok, Winner: winnerInt(s.State())})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	s, err := h.dir.Get(req.GameID)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	st := s.State()
	h.writeJSON(w, StateResponse{
		Position:   st.Position.Encode(),
		ToMove:     sideToInt(st.Position.SideToMove),
		LegalMoves: movesToDTO(st.Position.GenerateLegalMoves()),
		History:    st.History,
		Status:     statusString(st.Status),
		Winner:     winnerInt(st),
	})
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	h.dir.AddInvite(req.Inviter, req.Target)
	h.writeJSON(w, map[string]bool{"ok": true})
}

// handleAcceptInvite 受邀方接受邀请，邀请方执红。
func (h *Handler) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	iv, ok := h.dir.TakeInvite(req.PlayerID)
	if !ok {
		writeError(w, http.StatusNotFound, "invite not found or expired")
		return
	}

	s := h.dir.CreateGame(iv.Inviter, iv.Target, game.Config{
		Difficulty: req.Difficulty,
		SearchTime: defaultSearchTime,
	})
	pos := s.ClonePosition()
	h.writeJSON(w, NewGameResponse{
		GameID:     s.ID,
		Position:   pos.Encode(),
		ToMove:     sideToInt(pos.SideToMove),
		LegalMoves: movesToDTO(pos.GenerateLegalMoves()),
	})
}
