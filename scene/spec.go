package scene

import "gopkg.in/yaml.v3"

type TransformSpec struct {
	Position []float64 `yaml:"position"`
	// Rotation is heading, pitch and roll in degrees.
	Rotation []float64 `yaml:"rotation,omitempty"`
	Scale    []float64 `yaml:"scale,omitempty"`
}

// BoundsSpec is the unscaled extent of an object's visual mesh.
type BoundsSpec struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

type MeshSpec struct {
	Name      string      `yaml:"name"`
	Vertices  [][]float64 `yaml:"vertices"`
	Triangles [][]int     `yaml:"triangles"`
	// Materials names one material per triangle.
	Materials []string `yaml:"materials"`
}

type ObjectSpec struct {
	Name      string        `yaml:"name"`
	Dynamic   bool          `yaml:"dynamic"`
	Transform TransformSpec `yaml:"transform"`
	Bounds    *BoundsSpec   `yaml:"bounds"`
	Mesh      string        `yaml:"mesh"`
	// Physics is decoded by physics.SettingsFromNode.
	Physics yaml.Node `yaml:"physics"`
}

type KartSpec struct {
	Name string `yaml:"name"`
	// Player names the human driving the kart. Karts without one are
	// driven by the race itself.
	Player    string        `yaml:"player,omitempty"`
	Transform TransformSpec `yaml:"transform"`
}

type Spec struct {
	Name string `yaml:"name"`
	// Route is the driving line, closed into a loop when it has three or
	// more points.
	Route   [][]float64  `yaml:"route"`
	Meshes  []MeshSpec   `yaml:"meshes"`
	Objects []ObjectSpec `yaml:"objects"`
	Karts   []KartSpec   `yaml:"karts"`
}
