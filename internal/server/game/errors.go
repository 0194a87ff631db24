package game

import "errors"

var (
	ErrInvalidNotation = errors.New("game: invalid notation")
	ErrIllegalMove     = errors.New("game: illegal move")
	ErrNotYourTurn     = errors.New("game: not your turn")
	ErrNoActiveGame    = errors.New("game: no active game")
	ErrGameFinished    = errors.New("game: game already finished")
	ErrPieceNotFound   = errors.New("game: no piece at square")
	ErrAIUnavailable   = errors.New("game: engine has no move")
)
