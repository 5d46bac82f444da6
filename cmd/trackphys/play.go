package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/kartphysics/scene"
	"github.com/milk9111/kartphysics/script"
	"github.com/milk9111/kartphysics/viewer"
	"github.com/spf13/cobra"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		debug bool
		watch bool
		zoom  float64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drive the scene in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorld()
			if err != nil {
				return err
			}
			defer w.Close()

			opts := viewer.Options{
				Width:  viewer.DefaultWidth,
				Height: viewer.DefaultHeight,
				Zoom:   zoom,
				Debug:  debug,
				Log:    a.log,
			}
			if watch {
				roots := contentRoots()
				if len(roots) > 0 {
					watcher, err := scene.NewWatcher(roots)
					if err != nil {
						return err
					}
					defer watcher.Close()
					opts.Watcher = watcher
					for _, r := range roots {
						a.log.Info().Str("dir", r.Dir).Strs("exts", r.Exts).Msg("watching content")
					}
				}
			}

			ebiten.SetWindowSize(opts.Width, opts.Height)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowTitle("trackphys - " + a.cfg.Scene)
			ebiten.SetTPS(a.cfg.Race.TickRate)

			return ebiten.RunGame(viewer.NewGame(w, opts))
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "show the debug overlay")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload edited scenes and scripts")
	cmd.Flags().Float64Var(&zoom, "zoom", viewer.DefaultZoom, "pixels per metre")
	return cmd
}

// contentRoots lists the on-disk scene and script roots that exist.
func contentRoots() []scene.Root {
	var out []scene.Root
	for _, r := range []scene.Root{
		scene.SceneRoot(),
		{Dir: script.DiskDir, Exts: []string{".tengo"}},
	} {
		if info, err := os.Stat(r.Dir); err == nil && info.IsDir() {
			out = append(out, r)
		}
	}
	return out
}
