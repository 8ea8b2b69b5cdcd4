package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/younwookim/scenes/internal/application/game"
	"github.com/younwookim/scenes/internal/application/loader"
	"github.com/younwookim/scenes/internal/application/replay"
	"github.com/younwookim/scenes/internal/application/system"
	"github.com/younwookim/scenes/internal/infrastructure/config"
	logx "github.com/younwookim/scenes/internal/infrastructure/log"
	"github.com/younwookim/scenes/internal/infrastructure/watch"
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// App wraps the scene host with demo controls
type App struct {
	*game.Game

	loader    *loader.Loader
	screens   *demoScreens
	assets    *config.Loader
	current   int
	watcher   *watch.Watcher
	recorder  *replay.Recorder
	tracePath string
	logger    *zap.Logger
}

// Update handles the demo keys, then updates the loaded scenes
func (a *App) Update() error {
	a.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		if err := a.initialize(); err != nil {
			a.logger.Warn("initialize", zap.Error(err))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if n := len(a.loader.Collections()); n > 0 {
			a.selectCollection((a.current + 1) % n)
		}
	}

	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			a.requestGroup(i)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveTrace()
	}

	return a.Game.Update()
}

// Draw renders the loaded scenes and the status line
func (a *App) Draw(dst *ebiten.Image) {
	dst.Fill(colorBG)
	a.Game.Draw(dst)

	name := "-"
	if c := a.loader.Collection(); c != nil {
		name = c.Name
	}
	status := fmt.Sprintf("%s | collection: %s | active: %s\nI: init  C: next collection  1-9: group  F5: save trace",
		a.loader.State(), name, a.Active())
	ebitenutil.DebugPrintAt(dst, status, 8, dst.Bounds().Dy()-60)
}

func (a *App) initialize() error {
	if err := a.loader.Initialize(); err != nil {
		return err
	}
	a.current = 0
	a.requestGroup(0)
	return nil
}

func (a *App) selectCollection(i int) {
	if err := a.loader.SetSceneCollectionIndex(i); err != nil {
		a.logger.Warn("select collection", zap.Int("index", i), zap.Error(err))
		return
	}
	a.current = i
	a.requestGroup(0)
}

// requestGroup starts the transition to the i-th group of the selected collection
func (a *App) requestGroup(i int) {
	c := a.loader.Collection()
	if c == nil {
		return
	}
	ref, err := c.SceneByIndex(i)
	if err != nil {
		a.logger.Debug("no group for key", zap.Int("index", i), zap.Error(err))
		return
	}
	if err := a.Request(ref); err != nil {
		a.logger.Warn("transition request rejected", zap.Stringer("scene", ref), zap.Error(err))
	}
}

// drainWatcher reloads the assets once for every batch of file events
func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}

	changed := false
	for {
		select {
		case p, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.logger.Debug("asset changed", zap.String("path", p))
			changed = true
			continue
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			a.logger.Warn("watch", zap.Error(err))
			continue
		default:
		}
		break
	}

	if changed {
		a.reload()
	}
}

// reload re-reads the assets and re-selects the current collection by name
func (a *App) reload() {
	collections, _, err := system.LoadAssets(a.assets, a.logger)
	if err != nil {
		a.logger.Error("reload assets", zap.Error(err))
		return
	}

	name := ""
	if c := a.loader.Collection(); c != nil {
		name = c.Name
	}
	a.loader.SetCollections(collections)
	a.screens.rebuild(collections)
	a.logger.Info("assets reloaded", zap.Int("collections", len(collections)))

	if !a.loader.State().Initialized() {
		return
	}
	for i, c := range collections {
		if c.Name == name {
			if err := a.loader.SetSceneCollection(c); err != nil {
				a.logger.Warn("reselect collection", zap.String("collection", name), zap.Error(err))
				return
			}
			a.current = i
			return
		}
	}
	a.logger.Warn("selected collection removed from assets", zap.String("collection", name))
}

func (a *App) saveTrace() {
	if a.recorder == nil || a.recorder.CallCount() == 0 {
		return
	}
	if err := a.recorder.Save(a.tracePath); err != nil {
		a.logger.Error("failed to save transition journal", zap.Error(err))
		return
	}
	a.logger.Info("transition journal saved",
		zap.String("path", a.tracePath),
		zap.Int("calls", a.recorder.CallCount()),
	)
}

func (a *App) close() {
	a.saveTrace()
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
}

func main() {
	manualInit := flag.Bool("manual-init", false, "Wait for the I key before initializing the loader")
	replayFlag := flag.String("replay", "", "Apply a transition journal before starting (e.g., -replay transitions.json)")
	flag.Parse()

	env, err := config.ParseEnv(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logx.NewLogger(env.Development, env.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(env, logger, *manualInit, *replayFlag); err != nil {
		logger.Error("game exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(env *config.EnvConfig, logger *zap.Logger, manualInit bool, replayFile string) error {
	// Assets come from disk when configured, otherwise from the embedded demo
	var assets *config.Loader
	if env.AssetsDir != "" {
		assets = config.NewLoader(env.AssetsDir)
	} else {
		fsys, err := fs.Sub(configFS, "configs")
		if err != nil {
			return fmt.Errorf("config subfs: %w", err)
		}
		assets = config.NewFSLoader(fsys, "configs")
	}

	collections, _, err := system.LoadAssets(assets, logger)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	screens := newDemoScreens(collections)
	g := game.New(screens.registry(), env.ScreenWidth, env.ScreenHeight, logger)

	var engine loader.Engine = g
	app := &App{
		Game:    g,
		screens: screens,
		assets:  assets,
		logger:  logger,
	}
	if env.TracePath != "" {
		app.recorder = replay.NewRecorder(g)
		app.tracePath = env.TracePath
		if info, err := os.Stat(env.TracePath); err == nil && info.IsDir() {
			app.tracePath = filepath.Join(env.TracePath, replay.GenerateFilename())
		}
		engine = app.recorder
		logger.Info("journaling engine calls", zap.String("path", app.tracePath))
	}

	app.loader = loader.New(engine, collections, logger)
	g.SetLoader(app.loader)

	if replayFile != "" {
		journal, err := replay.LoadJournal(replayFile)
		if err != nil {
			return err
		}
		if err := replay.NewReplayer(*journal).Run(context.Background(), engine); err != nil {
			return fmt.Errorf("replay %s: %w", replayFile, err)
		}
		logger.Info("journal replayed", zap.String("path", replayFile), zap.Int("calls", len(journal.Calls)))
	}

	if env.Watch && env.AssetsDir != "" {
		w, err := watch.NewWatcher(env.AssetsDir, filepath.Join(env.AssetsDir, config.CollectionsDir))
		if err != nil {
			return fmt.Errorf("watch assets: %w", err)
		}
		app.watcher = w
		logger.Info("watching assets", zap.String("dir", env.AssetsDir))
	} else if env.Watch {
		logger.Warn("SCENES_WATCH needs SCENES_ASSETS, embedded assets are not watched")
	}
	defer app.close()

	if !manualInit {
		if err := app.initialize(); err != nil {
			return err
		}
	}

	ebiten.SetWindowSize(env.ScreenWidth*env.Scale, env.ScreenHeight*env.Scale)
	ebiten.SetWindowTitle("Scene Groups")

	return ebiten.RunGame(app)
}
