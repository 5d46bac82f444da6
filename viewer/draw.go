package viewer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kartphysics/physics"
	"golang.org/x/image/colornames"
)

var (
	kartColor    = toFColor(colornames.Orange)
	staticColor  = toFColor(colornames.Lightskyblue)
	dynamicColor = toFColor(colornames.Orchid)
	sensorColor  = toFColor(colornames.Gold)
	routeColor   = colornames.Dimgray
)

// DrawSpace renders every shape in the space through the camera.
func DrawSpace(screen *ebiten.Image, space *physics.Space, cam *Camera) {
	if screen == nil || space == nil || space.Space() == nil || cam == nil {
		return
	}
	cp.DrawSpace(space.Space(), &spaceDrawer{screen: screen, space: space, cam: cam})
}

type spaceDrawer struct {
	screen *ebiten.Image
	space  *physics.Space
	cam    *Camera
}

func (d *spaceDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay := d.cam.WorldToScreen(a.X, a.Y)
	bx, by := d.cam.WorldToScreen(b.X, b.Y)
	ebitenutil.DrawLine(d.screen, ax, ay, bx, by, c)
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := toRGBA(fill)
	steps := 20
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * math.Pi / float64(steps))
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, c)
		prev = cur
	}
	// heading tick
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(fill))
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(fill))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := toRGBA(fill)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := toRGBA(fill)
	l := size / 2 / d.cam.Zoom()
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	b, ok := d.space.BodyForShape(shape)
	if !ok {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	return bodyColor(b)
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

func bodyColor(b *physics.RigidBody) cp.FColor {
	switch {
	case b.UserPointer().Kind == physics.UserPointerKart:
		return kartColor
	case b.Sensor():
		return sensorColor
	case b.Kinematic():
		return staticColor
	default:
		return dynamicColor
	}
}

// DrawRoute draws the driving line, closing the loop when it has three or
// more points.
func DrawRoute(screen *ebiten.Image, route []cp.Vector, cam *Camera) {
	n := len(route)
	if screen == nil || n < 2 {
		return
	}
	segments := n - 1
	if n >= 3 {
		segments = n
	}
	for i := 0; i < segments; i++ {
		a, b := route[i], route[(i+1)%n]
		ax, ay := cam.WorldToScreen(a.X, a.Y)
		bx, by := cam.WorldToScreen(b.X, b.Y)
		ebitenutil.DrawLine(screen, ax, ay, bx, by, routeColor)
	}
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func toRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
