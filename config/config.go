package config

import (
	"os"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/kart"
	"github.com/milk9111/kartphysics/physics"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Physics PhysicsConfig `yaml:"physics"`
	Kart    KartConfig    `yaml:"kart"`
	Race    RaceConfig    `yaml:"race"`

	// Scene is the scene loaded when none is given on the command line.
	Scene string `yaml:"scene"`
	// Materials is an optional material table on disk.
	Materials string `yaml:"materials"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
	// Floor is the lowest height dynamic bodies can reach. Null means no floor.
	Floor            *float64 `yaml:"floor"`
	ExplosionImpulse float64  `yaml:"explosion_impulse"`
	SplashFactor     float64  `yaml:"splash_factor"`
	AngularDamping   float64  `yaml:"angular_damping"`
	CrateSpin        float64  `yaml:"crate_spin"`
}

type KartConfig struct {
	Mass               float64   `yaml:"mass"`
	Size               []float64 `yaml:"size"`
	EngineForce        float64   `yaml:"engine_force"`
	BrakeForce         float64   `yaml:"brake_force"`
	MaxSpeed           float64   `yaml:"max_speed"`
	SteerRate          float64   `yaml:"steer_rate"`
	TimeFullSteer      float64   `yaml:"time_full_steer"`
	Grip               float64   `yaml:"grip"`
	ZipperTime         float64   `yaml:"zipper_time"`
	ZipperSpeedGain    float64   `yaml:"zipper_speed_gain"`
	SquashDuration     float64   `yaml:"squash_duration"`
	SquashSlowdown     float64   `yaml:"squash_slowdown"`
	AttachmentTime     float64   `yaml:"attachment_time"`
	AttachmentSlowdown float64   `yaml:"attachment_slowdown"`
	RescueTime         float64   `yaml:"rescue_time"`
	ExplosionImpulse   float64   `yaml:"explosion_impulse"`
	CrashTime          float64   `yaml:"crash_time"`
	StartPenalty       float64   `yaml:"start_penalty"`
}

type RaceConfig struct {
	// Countdown is how long the start phase lasts in seconds.
	Countdown     float64 `yaml:"countdown"`
	TickRate      int     `yaml:"tick_rate"`
	WrongWayCheck bool    `yaml:"wrong_way_check"`
}

func Default() Config {
	p := kart.DefaultProperties()
	t := physics.DefaultTuning()
	floor := 0.0
	return Config{
		Log: LogConfig{Level: "info"},
		Physics: PhysicsConfig{
			Gravity:          -9.8,
			Iterations:       10,
			Floor:            &floor,
			ExplosionImpulse: t.ExplosionImpulse,
			SplashFactor:     t.SplashFactor,
			AngularDamping:   t.AngularDamping,
			CrateSpin:        t.CrateSpin,
		},
		Kart: KartConfig{
			Mass:               p.Mass,
			Size:               []float64{p.Size[0], p.Size[1], p.Size[2]},
			EngineForce:        p.EngineForce,
			BrakeForce:         p.BrakeForce,
			MaxSpeed:           p.MaxSpeed,
			SteerRate:          p.SteerRate,
			TimeFullSteer:      p.TimeFullSteer,
			Grip:               p.Grip,
			ZipperTime:         p.ZipperTime,
			ZipperSpeedGain:    p.ZipperSpeedGain,
			SquashDuration:     p.SquashDuration,
			SquashSlowdown:     p.SquashSlowdown,
			AttachmentTime:     p.AttachmentTime,
			AttachmentSlowdown: p.AttachmentSlowdown,
			RescueTime:         p.RescueTime,
			ExplosionImpulse:   p.ExplosionImpulse,
			CrashTime:          p.CrashTime,
			StartPenalty:       kart.DefaultStartPenalty,
		},
		Race: RaceConfig{
			Countdown:     3,
			TickRate:      60,
			WrongWayCheck: true,
		},
		Scene: "demo",
	}
}

// Parse decodes yaml over the defaults. Keys left out keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}

// Load reads path (if not empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, eris.Wrapf(err, "config: read %s", path)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, eris.Wrapf(err, "config: parse %s", path)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// env lists the settings that can be overridden from the environment.
type env struct {
	LogLevel      string  `config:"TRACKPHYS_LOG_LEVEL"`
	LogPretty     bool    `config:"TRACKPHYS_LOG_PRETTY"`
	Gravity       float64 `config:"TRACKPHYS_GRAVITY"`
	Iterations    int     `config:"TRACKPHYS_ITERATIONS"`
	KartMass      float64 `config:"TRACKPHYS_KART_MASS"`
	KartMaxSpeed  float64 `config:"TRACKPHYS_KART_MAX_SPEED"`
	StartPenalty  float64 `config:"TRACKPHYS_START_PENALTY"`
	Countdown     float64 `config:"TRACKPHYS_COUNTDOWN"`
	TickRate      int     `config:"TRACKPHYS_TICK_RATE"`
	WrongWayCheck bool    `config:"TRACKPHYS_WRONG_WAY_CHECK"`
	Scene         string  `config:"TRACKPHYS_SCENE"`
	Materials     string  `config:"TRACKPHYS_MATERIALS"`
}

// ApplyEnv overrides settings from TRACKPHYS_* environment variables.
func (c *Config) ApplyEnv() error {
	e := env{
		LogLevel:      c.Log.Level,
		LogPretty:     c.Log.Pretty,
		Gravity:       c.Physics.Gravity,
		Iterations:    c.Physics.Iterations,
		KartMass:      c.Kart.Mass,
		KartMaxSpeed:  c.Kart.MaxSpeed,
		StartPenalty:  c.Kart.StartPenalty,
		Countdown:     c.Race.Countdown,
		TickRate:      c.Race.TickRate,
		WrongWayCheck: c.Race.WrongWayCheck,
		Scene:         c.Scene,
		Materials:     c.Materials,
	}
	if err := jlconfig.FromEnv().To(&e); err != nil {
		return eris.Wrap(err, "config: environment")
	}
	c.Log.Level = e.LogLevel
	c.Log.Pretty = e.LogPretty
	c.Physics.Gravity = e.Gravity
	c.Physics.Iterations = e.Iterations
	c.Kart.Mass = e.KartMass
	c.Kart.MaxSpeed = e.KartMaxSpeed
	c.Kart.StartPenalty = e.StartPenalty
	c.Race.Countdown = e.Countdown
	c.Race.TickRate = e.TickRate
	c.Race.WrongWayCheck = e.WrongWayCheck
	c.Scene = e.Scene
	c.Materials = e.Materials
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Race.TickRate <= 0:
		return eris.Errorf("config: tick_rate must be positive, got %d", c.Race.TickRate)
	case c.Kart.Mass <= 0:
		return eris.Errorf("config: kart mass must be positive, got %g", c.Kart.Mass)
	case c.Physics.Iterations <= 0:
		return eris.Errorf("config: iterations must be positive, got %d", c.Physics.Iterations)
	case len(c.Kart.Size) != 3:
		return eris.Errorf("config: kart size needs 3 components, got %d", len(c.Kart.Size))
	case c.Physics.SplashFactor < 0 || c.Physics.SplashFactor >= 1:
		return eris.Errorf("config: splash_factor must be in [0, 1), got %g", c.Physics.SplashFactor)
	case c.Race.Countdown < 0:
		return eris.Errorf("config: countdown must not be negative, got %g", c.Race.Countdown)
	}
	return nil
}

// TickDuration is the fixed simulation step in seconds.
func (c Config) TickDuration() float64 {
	return 1 / float64(c.Race.TickRate)
}

func (c Config) KartProperties(name string) kart.Properties {
	k := c.Kart
	p := kart.Properties{
		Name:               name,
		Mass:               k.Mass,
		EngineForce:        k.EngineForce,
		BrakeForce:         k.BrakeForce,
		MaxSpeed:           k.MaxSpeed,
		SteerRate:          k.SteerRate,
		TimeFullSteer:      k.TimeFullSteer,
		Grip:               k.Grip,
		ZipperTime:         k.ZipperTime,
		ZipperSpeedGain:    k.ZipperSpeedGain,
		SquashDuration:     k.SquashDuration,
		SquashSlowdown:     k.SquashSlowdown,
		AttachmentTime:     k.AttachmentTime,
		AttachmentSlowdown: k.AttachmentSlowdown,
		RescueTime:         k.RescueTime,
		ExplosionImpulse:   k.ExplosionImpulse,
		CrashTime:          k.CrashTime,
	}
	if len(k.Size) == 3 {
		p.Size = mgl64.Vec3{k.Size[0], k.Size[1], k.Size[2]}
	} else {
		p.Size = kart.DefaultProperties().Size
	}
	return p
}

func (c Config) Tuning() physics.Tuning {
	return physics.Tuning{
		ExplosionImpulse: c.Physics.ExplosionImpulse,
		SplashFactor:     c.Physics.SplashFactor,
		AngularDamping:   c.Physics.AngularDamping,
		CrateSpin:        c.Physics.CrateSpin,
	}
}

func (c Config) SpaceConfig() physics.SpaceConfig {
	sc := physics.SpaceConfig{
		Gravity:    c.Physics.Gravity,
		Iterations: c.Physics.Iterations,
	}
	if c.Physics.Floor != nil {
		floor := *c.Physics.Floor
		sc.Floor = &floor
	}
	return sc
}
