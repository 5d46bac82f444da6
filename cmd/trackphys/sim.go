package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/milk9111/kartphysics/race"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func newSimCmd(a *app) *cobra.Command {
	var seconds float64
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the scene headless at the fixed tick rate and print where every kart ended up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seconds <= 0 {
				return eris.Errorf("seconds must be positive, got %v", seconds)
			}
			w, err := a.openWorld()
			if err != nil {
				return err
			}
			defer w.Close()

			frames := simulate(w, seconds)
			a.log.Info().Int("frames", frames).Float64("elapsed", w.Elapsed()).Msg("simulation done")
			return printKarts(cmd.OutOrStdout(), w)
		},
	}
	cmd.Flags().Float64Var(&seconds, "seconds", 10, "simulated time")
	return cmd
}

// simulate steps w for the given simulated time and returns the number of
// frames run.
func simulate(w *race.World, seconds float64) int {
	dt := w.Config().TickDuration()
	frames := int(seconds/dt + 0.5)
	for i := 0; i < frames; i++ {
		w.Step(dt)
	}
	return frames
}

func printKarts(out io.Writer, w *race.World) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KART\tX\tY\tZ\tSPEED\tHERRINGS\tSTATE")
	for _, d := range w.Karts() {
		k := d.Base()
		p := k.Position()
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t%s\n", k.Name(), p[0], p[1], p[2], k.Speed(), k.Herrings(), kartState(d.Base()))
	}
	return tw.Flush()
}
