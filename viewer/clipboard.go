package viewer

import (
	"math"

	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/scene"
	"github.com/rotisserie/eris"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

// Clipboard copies kart placements as scene yaml. It stays disabled when
// the platform has no clipboard.
type Clipboard struct {
	ready bool
}

func NewClipboard() (*Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return &Clipboard{}, eris.Wrap(err, "viewer: clipboard")
	}
	return &Clipboard{ready: true}, nil
}

func (c *Clipboard) Ready() bool { return c != nil && c.ready }

// CopyPlacement puts a karts entry for name at t on the clipboard.
func (c *Clipboard) CopyPlacement(name string, t physics.Transform) ([]byte, error) {
	out, err := PlacementYAML(name, t)
	if err != nil {
		return nil, err
	}
	if c.Ready() {
		clipboard.Write(clipboard.FmtText, out)
	}
	return out, nil
}

// PlacementYAML renders t as a scene kart entry, rounded to centimetres
// and tenths of a degree.
func PlacementYAML(name string, t physics.Transform) ([]byte, error) {
	deg := common.HPRToDegrees(t.HPR)
	spec := []scene.KartSpec{{
		Name: name,
		Transform: scene.TransformSpec{
			Position: []float64{round(t.Origin[0], 100), round(t.Origin[1], 100), round(t.Origin[2], 100)},
			Rotation: []float64{round(deg[0], 10), round(deg[1], 10), round(deg[2], 10)},
		},
	}}
	out, err := yaml.Marshal(spec)
	if err != nil {
		return nil, eris.Wrap(err, "viewer: marshal placement")
	}
	return out, nil
}

func round(v, scale float64) float64 {
	r := math.Round(v*scale) / scale
	if r == 0 {
		// avoid printing -0
		return 0
	}
	return r
}
