package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/physics"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// KartPlacement is a kart's starting slot.
type KartPlacement struct {
	Name   string
	Player string
	Start  physics.Transform
}

type Scene struct {
	Name    string
	Route   Route
	Meshes  map[string]*physics.MeshData
	Objects []*TrackObject
	Karts   []KartPlacement
}

// LoadScene reads and parses a scene by name or path.
func LoadScene(name string, log zerolog.Logger) (*Scene, error) {
	data, err := Load(name)
	if err != nil {
		return nil, eris.Wrapf(err, "scene: load %s", name)
	}
	s, err := Parse(data, log)
	if err != nil {
		return nil, eris.Wrapf(err, "scene: parse %s", name)
	}
	if s.Name == "" {
		s.Name = cleanScenePath(name)
	}
	return s, nil
}

// Parse decodes a scene. Objects without an id get a generated one.
func Parse(data []byte, log zerolog.Logger) (*Scene, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, eris.Wrap(err, "scene: unmarshal")
	}

	s := &Scene{Name: spec.Name, Meshes: map[string]*physics.MeshData{}}

	for i, p := range spec.Route {
		v, err := vec3(p, mgl64.Vec3{}, "route point")
		if err != nil {
			return nil, eris.Wrapf(err, "scene: route point %d", i)
		}
		s.Route = append(s.Route, v)
	}

	for _, ms := range spec.Meshes {
		m, err := meshFromSpec(ms)
		if err != nil {
			return nil, err
		}
		s.Meshes[ms.Name] = m
	}

	for i, objSpec := range spec.Objects {
		obj, err := objectFromSpec(objSpec, s.Meshes, log)
		if err != nil {
			return nil, eris.Wrapf(err, "scene: object %d", i)
		}
		s.Objects = append(s.Objects, obj)
	}

	for i, ks := range spec.Karts {
		t, err := transformFromSpec(ks.Transform)
		if err != nil {
			return nil, eris.Wrapf(err, "scene: kart %d", i)
		}
		name := ks.Name
		if name == "" {
			name = uuid.NewString()
		}
		s.Karts = append(s.Karts, KartPlacement{
			Name:   name,
			Player: ks.Player,
			Start:  physics.Transform{Origin: t.pos, HPR: t.hpr},
		})
	}
	return s, nil
}

// Build adds every object of the scene to m.
func (s *Scene) Build(m *physics.Manager) error {
	if s == nil || m == nil {
		return eris.New("scene: nothing to build")
	}
	for _, obj := range s.Objects {
		h, _, err := m.Add(obj.Dynamic, obj.Settings, obj)
		if err != nil {
			return eris.Wrapf(err, "scene: build %s", obj.Name)
		}
		obj.handle = h
	}
	return nil
}

// Object returns the object with the given name.
func (s *Scene) Object(name string) (*TrackObject, bool) {
	if s == nil {
		return nil, false
	}
	for _, obj := range s.Objects {
		if obj.Name == name {
			return obj, true
		}
	}
	return nil, false
}

type placed struct {
	pos, hpr, scale mgl64.Vec3
}

func transformFromSpec(t TransformSpec) (placed, error) {
	pos, err := vec3(t.Position, mgl64.Vec3{}, "position")
	if err != nil {
		return placed{}, err
	}
	rot, err := vec3(t.Rotation, mgl64.Vec3{}, "rotation")
	if err != nil {
		return placed{}, err
	}
	scale, err := vec3(t.Scale, mgl64.Vec3{1, 1, 1}, "scale")
	if err != nil {
		return placed{}, err
	}
	return placed{pos: pos, hpr: common.DegreesToHPR(rot), scale: scale}, nil
}

func objectFromSpec(spec ObjectSpec, meshes map[string]*physics.MeshData, log zerolog.Logger) (*TrackObject, error) {
	t, err := transformFromSpec(spec.Transform)
	if err != nil {
		return nil, err
	}

	settings := physics.NewSettings(physics.BodyNone, -1, 1)
	if spec.Physics.Kind != 0 {
		settings, err = physics.SettingsFromNode(&spec.Physics, log)
		if err != nil {
			return nil, err
		}
	}

	name := spec.Name
	if name == "" {
		name = settings.ID
	}
	if name == "" {
		name = uuid.NewString()
	}
	if settings.ID == "" {
		settings.ID = name
	}

	obj := NewTrackObject(name, t.pos, t.hpr, t.scale)
	obj.Dynamic = spec.Dynamic
	obj.Settings = settings

	switch {
	case spec.Mesh != "":
		m, ok := meshes[spec.Mesh]
		if !ok {
			return nil, eris.Errorf("unknown mesh %q", spec.Mesh)
		}
		obj.SetMesh(m)
	case spec.Bounds != nil:
		lo, err := vec3(spec.Bounds.Min, mgl64.Vec3{-0.5, -0.5, -0.5}, "bounds min")
		if err != nil {
			return nil, err
		}
		hi, err := vec3(spec.Bounds.Max, mgl64.Vec3{0.5, 0.5, 0.5}, "bounds max")
		if err != nil {
			return nil, err
		}
		obj.SetBounds(lo, hi)
	}
	return obj, nil
}

func meshFromSpec(ms MeshSpec) (*physics.MeshData, error) {
	if ms.Name == "" {
		return nil, eris.New("scene: mesh without a name")
	}
	m := &physics.MeshData{Name: ms.Name}
	for i, v := range ms.Vertices {
		p, err := vec3(v, mgl64.Vec3{}, "vertex")
		if err != nil {
			return nil, eris.Wrapf(err, "scene: mesh %s vertex %d", ms.Name, i)
		}
		m.Vertices = append(m.Vertices, p)
	}
	for i, tri := range ms.Triangles {
		if len(tri) != 3 {
			return nil, eris.Errorf("scene: mesh %s triangle %d has %d indices", ms.Name, i, len(tri))
		}
		m.Indices = append(m.Indices, tri...)
	}
	if len(ms.Materials) > 0 {
		m.Materials = append([]string(nil), ms.Materials...)
	}
	return m, nil
}

func vec3(v []float64, def mgl64.Vec3, what string) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, eris.Errorf("%s needs 3 components, got %d", what, len(v))
	}
}

// Route is the driving line of a track.
type Route []mgl64.Vec3

// HeadingAt returns the heading of the route segment closest to pos on the
// ground plane. Routes with three or more points are closed loops.
func (r Route) HeadingAt(pos mgl64.Vec3) float64 {
	_, heading := r.Project(pos)
	return heading
}

// Project returns the point of the route closest to pos on the ground plane
// and the heading of its segment. The point keeps the height of pos.
func (r Route) Project(pos mgl64.Vec3) (mgl64.Vec3, float64) {
	n := len(r)
	switch n {
	case 0:
		return pos, 0
	case 1:
		return mgl64.Vec3{r[0][0], pos[1], r[0][2]}, 0
	}
	segments := n - 1
	if n > 2 {
		segments = n
	}
	best := math.Inf(1)
	point := pos
	heading := 0.0
	for i := 0; i < segments; i++ {
		a, b := r[i], r[(i+1)%n]
		d := mgl64.Vec3{b[0] - a[0], 0, b[2] - a[2]}
		l2 := d.LenSqr()
		if l2 == 0 {
			continue
		}
		rel := mgl64.Vec3{pos[0] - a[0], 0, pos[2] - a[2]}
		t := common.Clamp(rel.Dot(d)/l2, 0, 1)
		dist := rel.Sub(d.Mul(t)).LenSqr()
		if dist < best {
			best = dist
			point = mgl64.Vec3{a[0] + d[0]*t, pos[1], a[2] + d[2]*t}
			heading = math.Atan2(d[0], d[2])
		}
	}
	return point, heading
}
