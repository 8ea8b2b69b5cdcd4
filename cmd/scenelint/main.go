// Command scenelint loads scene collection assets, validates every
// collection and reports the warnings.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/younwookim/scenes/internal/application/system"
	"github.com/younwookim/scenes/internal/infrastructure/config"
	logx "github.com/younwookim/scenes/internal/infrastructure/log"
	"github.com/younwookim/scenes/internal/infrastructure/watch"
)

func main() {
	dir := flag.String("dir", "", "Asset directory holding the manifest (defaults to SCENES_ASSETS)")
	watchFlag := flag.Bool("watch", false, "Re-run on every asset change")
	strict := flag.Bool("strict", false, "Exit with status 2 when a collection has warnings")
	flag.Parse()

	env, err := config.ParseEnv(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = env.AssetsDir
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "scenelint: no asset directory, pass -dir or set SCENES_ASSETS")
		os.Exit(1)
	}

	logger, err := logx.NewLogger(env.Development, env.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	assets := config.NewLoader(*dir)
	code := lint(assets, logger)
	if !*watchFlag {
		_ = logger.Sync()
		if code == 2 && !*strict {
			code = 0
		}
		os.Exit(code)
	}

	if err := watchLoop(assets, logger); err != nil {
		logger.Error("watch", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// lint returns 0 when the assets are clean, 1 when they fail to load and
// 2 when a collection has warnings
func lint(assets *config.Loader, logger *zap.Logger) int {
	collections, warnings, err := system.LoadAssets(assets, logger)
	if err != nil {
		logger.Error("failed to load assets", zap.String("dir", assets.BasePath()), zap.Error(err))
		return 1
	}

	count := 0
	for _, w := range warnings {
		count += len(w)
	}
	logger.Info("assets checked",
		zap.String("dir", assets.BasePath()),
		zap.Int("collections", len(collections)),
		zap.Int("warnings", count),
	)
	if count > 0 {
		return 2
	}
	return 0
}

func watchLoop(assets *config.Loader, logger *zap.Logger) error {
	w, err := watch.NewWatcher(assets.BasePath(), filepath.Join(assets.BasePath(), config.CollectionsDir))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	logger.Info("watching assets", zap.String("dir", assets.BasePath()))
	for {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Debug("asset changed", zap.String("path", p))
			lint(assets, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch", zap.Error(err))
		case <-sig:
			return nil
		}
	}
}
