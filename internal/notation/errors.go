package notation

import "fmt"

// TokenKind 标记解析失败发生在哪一类记号上
type TokenKind string

const (
	TokenPiece     TokenKind = "piece"     // 棋子字形
	TokenPosition  TokenKind = "position"  // 位置描述（列号 / 前中后 / 序数）
	TokenAction    TokenKind = "action"    // 进/退/平
	TokenMagnitude TokenKind = "magnitude" // 步数或目标列
)

// ParseError 定位到具体记号的结构化解析错误
type ParseError struct {
	Kind   TokenKind
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("notation: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("notation: %s %q: %s", e.Kind, e.Token, e.Reason)
}

func parseErr(kind TokenKind, token, reason string) *ParseError {
	return &ParseError{Kind: kind, Token: token, Reason: reason}
}
