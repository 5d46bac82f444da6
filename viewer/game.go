package viewer

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kartphysics/input"
	"github.com/milk9111/kartphysics/kart"
	"github.com/milk9111/kartphysics/race"
	"github.com/milk9111/kartphysics/scene"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultZoom   = 12
)

type Options struct {
	Width  int
	Height int
	// Zoom is screen pixels per metre.
	Zoom  float64
	Debug bool
	// Watcher, when set, feeds edited content files to the world.
	Watcher *scene.Watcher
	Log     zerolog.Logger
}

// Game runs a race world in a window: a top-down view of the simulator
// plane driven by keyboard or gamepad.
type Game struct {
	world   *race.World
	input   *input.Input
	player  *kart.PlayerKart
	camera  *Camera
	pause   *ebitenui.UI
	clip    *Clipboard
	watcher *scene.Watcher
	log     zerolog.Logger

	width  int
	height int
	dt     float64
	frames int
	paused bool
	debug  bool
	quit   bool
}

func NewGame(w *race.World, opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	g := &Game{
		world:   w,
		input:   input.New(),
		camera:  NewCamera(opts.Width, opts.Height, opts.Zoom),
		watcher: opts.Watcher,
		log:     opts.Log,
		width:   opts.Width,
		height:  opts.Height,
		dt:      w.Config().TickDuration(),
		debug:   opts.Debug,
	}
	if pks := w.PlayerKarts(); len(pks) > 0 {
		g.player = pks[0]
	}
	g.pause = NewPauseUI(g.width, g.height, PauseActions{
		Resume:  func() { g.paused = false },
		Restart: func() { g.world.Reset(); g.paused = false },
		Quit:    func() { g.quit = true },
	})
	clip, err := NewClipboard()
	if err != nil {
		g.log.Warn().Err(err).Msg("clipboard unavailable")
	}
	g.clip = clip
	if k := g.followed(); k != nil {
		p := k.Position()
		g.camera.PosX, g.camera.PosZ = p[0], p[2]
	}
	return g
}

func (g *Game) followed() *kart.Kart {
	if g.player != nil {
		return g.player.Base()
	}
	if karts := g.world.Karts(); len(karts) > 0 {
		return karts[0].Base()
	}
	return nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.applyChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pause.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.world.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPlacement()
	}

	if g.player != nil {
		input.Apply(g.player, g.input.Update())
	}
	g.world.Step(g.dt)

	if k := g.followed(); k != nil {
		p := k.Position()
		g.camera.Update(p[0], p[2])
	}
	if g.player != nil {
		g.camera.SetFlipped(g.player.Camera().Mode() == kart.CameraReverse)
		g.camera.Shake(g.player.Camera().ShakeAmplitude(), g.world.Elapsed())
	}
	return nil
}

// applyChanges drains the content watcher without blocking.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.world.ApplyChange(path); err != nil {
				g.log.Warn().Err(err).Str("path", path).Msg("reload failed")
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("watch error")
		default:
			return
		}
	}
}

func (g *Game) copyPlacement() {
	k := g.followed()
	if k == nil {
		return
	}
	out, err := g.clip.CopyPlacement(k.Name(), k.Transform())
	if err != nil {
		g.log.Warn().Err(err).Msg("copy placement")
		return
	}
	g.log.Info().Bool("clipboard", g.clip.Ready()).Msg("placement\n" + string(out))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkolivegreen)

	route := make([]cp.Vector, 0, len(g.world.Route()))
	for _, p := range g.world.Route() {
		route = append(route, cp.Vector{X: p[0], Y: p[2]})
	}
	DrawRoute(screen, route, g.camera)
	DrawSpace(screen, g.world.Space(), g.camera)

	text := fmt.Sprintf("FPS: %.1f\n", ebiten.ActualFPS()) + hudText(g.world, g.player)
	if g.debug {
		text += debugText(g.world)
	}
	ebitenutil.DebugPrint(screen, text)

	if g.paused {
		g.pause.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// hudText describes the race and the player's kart.
func hudText(w *race.World, pk *kart.PlayerKart) string {
	var b strings.Builder
	if w.InStartPhase() {
		fmt.Fprintf(&b, "Start in %.1f\n", w.Countdown())
	} else {
		fmt.Fprintf(&b, "Time %.1f\n", w.Elapsed())
	}
	if pk == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "%s  speed %.1f  herrings %d  powerups %d\n", pk.Name(), pk.Speed(), pk.Herrings(), pk.Powerups())
	if pk.EarlyStartPenalty() {
		fmt.Fprintf(&b, "Penalty %.1f\n", pk.PenaltyTime())
	}
	if p := pk.Player(); p != nil {
		for _, m := range p.Messages.Messages() {
			b.WriteString(m.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func debugText(w *race.World) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s  objects %d  bodies %d\n", sceneName(w), w.Objects().Len(), w.Space().BodyCount())
	for _, d := range w.Karts() {
		k := d.Base()
		p := k.Position()
		fmt.Fprintf(&b, "%-8s pos (%.1f, %.1f, %.1f) speed %.1f\n", k.Name(), p[0], p[1], p[2], k.Speed())
	}
	return b.String()
}

func sceneName(w *race.World) string {
	if s := w.Scene(); s != nil {
		return s.Name
	}
	return "-"
}
