// Package book 封装云开局库查询。
// 协议：GET <base>?action=querybest&board=<FEN>，应答形如
// move:h2e2 / egtb:h2e2 / nobestmove。
package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"xiangqi/internal/xiangqi"
)

// ErrRemoteLookup 云库没有答案或应答无法解析
var ErrRemoteLookup = errors.New("book: remote lookup failed")

const defaultTimeout = 3 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient 的超时是整次查询的硬上限；查询失败不重试，
// 调用方直接回本地搜索。
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Query 查询局面最佳着法
func (c *Client) Query(ctx context.Context, fen string) (xiangqi.Move, error) {
	q := url.Values{}
	q.Set("action", "querybest")
	q.Set("board", fen)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return xiangqi.Move{}, fmt.Errorf("book: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("云库请求失败", zap.Error(err))
		return xiangqi.Move{}, fmt.Errorf("book: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("云库应答异常", zap.Int("status", resp.StatusCode))
		return xiangqi.Move{}, fmt.Errorf("book: status %d: %w", resp.StatusCode, ErrRemoteLookup)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return xiangqi.Move{}, fmt.Errorf("book: read body: %w", err)
	}

	mv, err := parseReply(strings.TrimSpace(string(body)))
	if err != nil {
		c.logger.Debug("云库应答解析失败", zap.String("body", string(body)), zap.Error(err))
		return xiangqi.Move{}, err
	}
	c.logger.Debug("云库命中", zap.Int("from", mv.From), zap.Int("to", mv.To))
	return mv, nil
}

// parseReply 解析 move:/egtb: 前缀的四字符着法码。
// 着法码列 a-i 自左向右，行 0-9 自下向上（行 0 是红方底线）。
func parseReply(body string) (xiangqi.Move, error) {
	var code string
	switch {
	case strings.HasPrefix(body, "move:"):
		code = body[len("move:"):]
	case strings.HasPrefix(body, "egtb:"):
		code = body[len("egtb:"):]
	case body == "nobestmove":
		return xiangqi.Move{}, ErrRemoteLookup
	default:
		return xiangqi.Move{}, fmt.Errorf("book: unexpected reply %q: %w", body, ErrRemoteLookup)
	}

	code = strings.TrimSpace(code)
	if len(code) < 4 {
		return xiangqi.Move{}, fmt.Errorf("book: short move code %q: %w", code, ErrRemoteLookup)
	}

	from, ok := decodeSquare(code[0], code[1])
	if !ok {
		return xiangqi.Move{}, fmt.Errorf("book: bad square %q: %w", code[:2], ErrRemoteLookup)
	}
	to, ok := decodeSquare(code[2], code[3])
	if !ok {
		return xiangqi.Move{}, fmt.Errorf("book: bad square %q: %w", code[2:4], ErrRemoteLookup)
	}
	return xiangqi.Move{From: from, To: to}, nil
}

func decodeSquare(file, rank byte) (int, bool) {
	if file < 'a' || file > 'i' || rank < '0' || rank > '9' {
		return 0, false
	}
	col := int(file - 'a')
	row := 9 - int(rank-'0')
	return xiangqi.IndexOf(row, col), true
}
