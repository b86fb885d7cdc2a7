// Command invec drives a vector with five inline elements from an interactive
// text menu, or replays a YAML script of statements against a store of such
// vectors.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/geofduf/inline-vector/vector"
)

func main() {
	var (
		allocName = flag.String("alloc", "heap", "block allocator: heap, pool or mmap")
		script    = flag.String("replay", "", "YAML file of statements to replay instead of running the menu")
		dump      = flag.String("dump", "", "file receiving the store as YAML after -replay")
		verbose   = flag.Bool("v", false, "log debug messages")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	os.Exit(run(*allocName, *script, *dump, logger))
}

func run(allocName, script, dump string, logger *slog.Logger) int {
	alloc, err := newAllocator(allocName)
	if err != nil {
		logger.Error("invalid allocator", "error", err)
		return 2
	}
	defer logAllocator(logger, alloc)

	if script == "" {
		v := vector.NewWithAllocator[int, [5]int](alloc)
		defer v.Clear()
		if err := runMenu(v, os.Stdin, os.Stdout, logger); err != nil {
			logger.Error("reading input", "error", err)
			return 1
		}
		return 0
	}

	if err := runReplay(alloc, script, dump, logger); err != nil {
		logger.Error("replay", "script", script, "error", err)
		return 1
	}
	return 0
}

func runReplay(alloc vector.Allocator[int], script, dump string, logger *slog.Logger) error {
	f, err := os.Open(script)
	if err != nil {
		return err
	}
	defer f.Close()
	store := vector.NewStoreWithAllocator[int, [5]int](alloc)
	replayErr := replay(store, f, os.Stdout, logger)
	if dump != "" {
		data, err := store.Dump()
		if err != nil {
			return err
		}
		if err := os.WriteFile(dump, data, 0o644); err != nil {
			return err
		}
		logger.Debug("store dumped", "file", dump, "keys", len(store.Keys()))
	}
	return replayErr
}
