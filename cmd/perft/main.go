package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/minnowengine/minnow/pkg/chess"
)

func main() {
	var fen = flag.String("fen", chess.InitialPositionFen, "position to expand")
	var depth = flag.Int("depth", 6, "perft depth")
	flag.Parse()

	var p, err = chess.NewPositionFromFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	var start = time.Now()
	var nodes = chess.Perft(&p, *depth)
	var elapsed = time.Since(start)

	fmt.Printf("perft %v nodes %v time %v nps %.0f\n",
		*depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
