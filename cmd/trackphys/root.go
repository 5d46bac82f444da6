package main

import (
	"github.com/milk9111/kartphysics/config"
	"github.com/milk9111/kartphysics/logging"
	"github.com/milk9111/kartphysics/race"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is shared by every subcommand once the root has loaded the config.
type app struct {
	configPath string
	scene      string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "trackphys",
		Short:        "Kart and track object physics sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "yaml config file")
	root.PersistentFlags().StringVarP(&a.scene, "scene", "s", "", "scene name or path, overrides the config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the config")

	root.AddCommand(
		newSimCmd(a),
		newInspectCmd(a),
		newPlayCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.scene != "" {
		cfg.Scene = a.scene
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Log)
	return nil
}

// openWorld builds a world and loads the configured scene into it.
func (a *app) openWorld() (*race.World, error) {
	w, err := race.New(a.cfg, race.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	if err := w.Open(a.cfg.Scene); err != nil {
		return nil, err
	}
	return w, nil
}
