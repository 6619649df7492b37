package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"tagedge/internal/cli"
	"tagedge/internal/logger"
	"tagedge/internal/opencv/bridge"
	"tagedge/internal/opencv/memory"
	"tagedge/internal/pipeline"
)

// opencv routes decoding, native scaling and edge-map encoding through gocv.
func opencv(log logger.Logger) []pipeline.Option {
	tracker := memory.NewTracker(log)
	codec := bridge.NewCodec(tracker, log)
	return []pipeline.Option{
		pipeline.WithDecoder(codec),
		pipeline.WithResizer(codec),
		pipeline.WithEdgeEncoder(codec),
		pipeline.WithMemoryReporter(tracker),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewCommand(os.Stdout, os.Stderr, opencv)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tagedge:", err)
		os.Exit(1)
	}
}
