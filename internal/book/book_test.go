package book

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xiangqi/internal/xiangqi"
)

func TestQueryParsesMoveReply(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("action") + "|" + r.URL.Query().Get("board")
		fmt.Fprint(w, "move:h2e2")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	pos := xiangqi.NewInitialPosition()
	mv, err := c.Query(context.Background(), pos.Encode())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotQuery != "querybest|"+pos.Encode() {
		t.Fatalf("request query = %q", gotQuery)
	}

	// h2e2：列 h=7，e=4；行 2 从下往上数，即内部行 9-2=7
	if mv.From != xiangqi.IndexOf(7, 7) {
		t.Fatalf("from = %d", mv.From)
	}
	if mv.To != xiangqi.IndexOf(7, 4) {
		t.Fatalf("to = %d", mv.To)
	}
}

func TestQueryAcceptsEgtbReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "egtb:a0a9")
	}))
	defer srv.Close()

	mv, err := NewClient(srv.URL, time.Second, nil).Query(context.Background(), "x")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if mv.From != xiangqi.IndexOf(9, 0) || mv.To != xiangqi.IndexOf(0, 0) {
		t.Fatalf("move = %+v", mv)
	}
}

func TestQueryFailuresReturnErrRemoteLookup(t *testing.T) {
	replies := []string{"nobestmove", "unknown", "move:zz99", "move:a"}
	for _, reply := range replies {
		reply := reply
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, reply)
		}))
		_, err := NewClient(srv.URL, time.Second, nil).Query(context.Background(), "x")
		srv.Close()
		if !errors.Is(err, ErrRemoteLookup) {
			t.Fatalf("reply %q: err = %v, want ErrRemoteLookup", reply, err)
		}
	}
}

func TestQueryBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Query(context.Background(), "x")
	if !errors.Is(err, ErrRemoteLookup) {
		t.Fatalf("err = %v, want ErrRemoteLookup", err)
	}
}

func TestQueryHonorsTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	start := time.Now()
	_, err := NewClient(srv.URL, 100*time.Millisecond, nil).Query(context.Background(), "x")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not honored")
	}
}
