package httpserver

import "net/http"

// NewRouter 把 API 处理器挂到 /api/ 下
func NewRouter(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", h)
	return mux
}
