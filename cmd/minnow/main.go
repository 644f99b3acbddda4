package main

import (
	"log"
	"os"
	"runtime"

	"github.com/minnowengine/minnow/pkg/engine"
	eval "github.com/minnowengine/minnow/pkg/eval/pesto"
	"github.com/minnowengine/minnow/pkg/uci"
)

const (
	name   = "Minnow"
	author = "the Minnow authors"
)

var versionName = "dev"

func main() {
	var logger = log.New(os.Stderr, "", log.LstdFlags)

	var eng = engine.NewEngine(func() interface{} {
		return eval.NewEvaluationService()
	})

	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			uci.SpinOption("Hash", &eng.Hash, 4, 1<<16),
			uci.SpinOption("Threads", &eng.Threads, 1, runtime.NumCPU()),
			uci.ButtonOption("Clear Hash", eng.Clear),
		},
	)

	protocol.Run(logger)
}
