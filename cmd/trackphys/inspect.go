package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/milk9111/kartphysics/kart"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/race"
	"github.com/milk9111/kartphysics/registry"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the physical objects of the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorld()
			if err != nil {
				return err
			}
			defer w.Close()
			return printObjects(cmd.OutOrStdout(), w)
		},
	}
}

func printObjects(out io.Writer, w *race.World) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSHAPE\tRADIUS\tMASS\tMATERIAL\tFLAGS")
	w.Objects().Each(func(_ registry.Handle, o *physics.Object) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
			o.ID(), o.Kind(), o.BodyType(), o.Radius(), o.Mass(), dash(o.MaterialName()), objectFlags(o))
	})
	return tw.Flush()
}

func objectFlags(o *physics.Object) string {
	var flags []string
	if o.IsDynamic() {
		flags = append(flags, "dynamic")
	}
	if o.Passable() {
		flags = append(flags, "passable")
	}
	if o.IsCrashReset() {
		flags = append(flags, "reset")
	}
	if o.IsExplodeKartObject() {
		flags = append(flags, "explode")
	}
	if o.IsFlattenKartObject() {
		flags = append(flags, "flatten")
	}
	if o.ScriptName() != "" {
		flags = append(flags, "script="+o.ScriptName())
	}
	return dash(strings.Join(flags, ","))
}

func kartState(k *kart.Kart) string {
	switch {
	case k.Rescuing():
		return "rescue"
	case k.Squashed():
		return "squashed"
	case k.Crashed():
		return "crashed"
	case k.ZipperActive():
		return "zipper"
	default:
		return "ok"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
