package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"xiangqi/internal/book"
	"xiangqi/internal/engine"
	"xiangqi/internal/server/game"
	httpserver "xiangqi/internal/server/http"
)

func main() {
	addr := flag.String("addr", ":2888", "listen address")
	bookURL := flag.String("book", "", "cloud opening book base URL (empty disables)")
	bookTimeout := flag.Duration("book-timeout", 3*time.Second, "opening book query timeout")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	eng := engine.NewEngine()
	if *bookURL != "" {
		eng.SetBook(book.NewClient(*bookURL, *bookTimeout, logger.Named("book")))
		logger.Info("云开局库已启用", zap.String("url", *bookURL))
	}

	dir := game.NewDirectory(logger.Named("directory"))
	h := httpserver.NewHandler(dir, eng, logger.Named("http"))

	srv := &http.Server{
		Addr:    *addr,
		Handler: httpserver.NewRouter(h),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("开始监听", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := dir.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("服务退出", zap.Error(err))
	}
	logger.Info("服务正常退出")
}
