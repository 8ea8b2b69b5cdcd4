package main

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/scenes/internal/application/screen"
	"github.com/younwookim/scenes/internal/domain/scene"
)

// Colors for rendering
var (
	colorBG    = color.RGBA{26, 26, 46, 255}
	colorLabel = color.RGBA{40, 40, 60, 200}
)

// demoScreen draws a colored band with its name. Level scenes fill the
// background; every other scene draws a strip on top of it.
type demoScreen struct {
	name    scene.Ref
	next    scene.Ref
	fill    color.RGBA
	row     int
	entered int
}

// Update implements screen.Screen. Space moves on to the next group.
func (s *demoScreen) Update(_ float64) (scene.Ref, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return s.next, nil
	}
	return "", nil
}

// Draw implements screen.Screen
func (s *demoScreen) Draw(dst *ebiten.Image) {
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())

	if s.isLevel() {
		ebitenutil.DrawRect(dst, 0, 0, w, h, s.fill)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%s (space: next group)", s.name), 8, int(h)-20)
		return
	}

	y := 8 + float64(s.row)*18
	ebitenutil.DrawRect(dst, 0, y, w, 16, colorLabel)
	ebitenutil.DrawRect(dst, 0, y, 6, 16, s.fill)
	ebitenutil.DebugPrintAt(dst, string(s.name), 12, int(y))
}

// OnEnter implements screen.Screen
func (s *demoScreen) OnEnter() {
	s.entered++
}

// OnExit implements screen.Screen
func (s *demoScreen) OnExit() {}

func (s *demoScreen) isLevel() bool {
	return strings.HasPrefix(string(s.name), "Level") ||
		s.name == "Credits" || s.name == "Thanks"
}

// demoScreens creates a screen for any scene name. Within a collection
// each group's active scene advances to the next group's active scene.
type demoScreens struct {
	mu   sync.Mutex
	next map[scene.Ref]scene.Ref
	rows map[scene.Ref]int
}

func newDemoScreens(collections []*scene.Collection) *demoScreens {
	d := &demoScreens{rows: make(map[scene.Ref]int)}
	d.rebuild(collections)
	return d
}

// rebuild recomputes the next-group mapping. Screens already created keep
// the target they were created with.
func (d *demoScreens) rebuild(collections []*scene.Collection) {
	next := make(map[scene.Ref]scene.Ref)
	for _, c := range collections {
		var actives []scene.Ref
		for _, g := range c.Groups {
			if g.IsAssigned() {
				actives = append(actives, g.ActiveScene)
			}
		}
		for i, a := range actives {
			next[a] = actives[(i+1)%len(actives)]
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.next = next
}

func (d *demoScreens) create(name scene.Ref) (screen.Screen, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	row, ok := d.rows[name]
	if !ok {
		row = len(d.rows)
		d.rows[name] = row
	}
	return &demoScreen{
		name: name,
		next: d.next[name],
		fill: colorFor(name),
		row:  row,
	}, nil
}

func (d *demoScreens) registry() *screen.Registry {
	r := screen.NewRegistry()
	r.SetFallback(d.create)
	return r
}

// colorFor derives a stable color from a scene name
func colorFor(name scene.Ref) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()
	return color.RGBA{
		R: uint8(60 + sum%140),
		G: uint8(60 + (sum>>8)%140),
		B: uint8(60 + (sum>>16)%140),
		A: 255,
	}
}
