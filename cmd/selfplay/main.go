package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"xiangqi/internal/engine"
	"xiangqi/internal/notation"
	"xiangqi/internal/xiangqi"
)

func main() {
	depth := flag.Int("depth", 4, "search depth")
	timeMs := flag.Int64("time", 3000, "per-move time limit in ms")
	maxMoves := flag.Int("maxmoves", 200, "max moves to play")
	pprofAddr := flag.String("pprof", "", "pprof listen address (empty disables)")
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof listening on %s", *pprofAddr)
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				log.Printf("pprof failed: %v", err)
			}
		}()
	}

	e := engine.NewEngine()
	pos := xiangqi.NewInitialPosition()
	ctx := context.Background()

	for i := 0; i < *maxMoves; i++ {
		log.Printf("--- Move %d, Side: %v ---", i+1, pos.SideToMove)

		start := time.Now()
		res, err := e.Search(ctx, pos, engine.SearchConfig{
			MaxDepth:  *depth,
			TimeLimit: time.Duration(*timeMs) * time.Millisecond,
		})
		duration := time.Since(start)

		if err != nil {
			log.Printf("Game over: %v wins (opponent has no moves).", xiangqi.Opposite(pos.SideToMove))
			break
		}

		text, _ := notation.Generate(pos, res.BestMove)
		nps := int64(0)
		if duration > 0 {
			nps = int64(float64(res.Nodes) / duration.Seconds())
		}
		fmt.Printf("%s  Score: %d, Depth: %d, Nodes: %d, Time: %v, NPS: %d\n",
			text, res.Score, res.Depth, res.Nodes, duration, nps)

		newPos, ok := pos.ApplyMove(res.BestMove)
		if !ok {
			log.Fatalf("Failed to apply move %v", res.BestMove)
		}
		pos = newPos

		if !pos.KingExists(xiangqi.Red) || !pos.KingExists(xiangqi.Black) {
			log.Printf("Game over: general captured.")
			break
		}
	}

	log.Println("Selfplay finished.")
	os.Exit(0)
}
