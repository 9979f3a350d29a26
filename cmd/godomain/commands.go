/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	Godomain "github.com/GrainArc/Godomain"
	"github.com/GrainArc/Godomain/border"
	"github.com/GrainArc/Godomain/extent"
)

func (a *app) newGeoTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geotransform",
		Short: "Print the geotransform and raster size of an extent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.params()
			if p.Dataset == "" && p.Extent != "" {
				spec, err := extent.Parse(p.Extent)
				if err != nil {
					return err
				}
				// -te 不需要坐标转换
				if spec.Has(extent.TE) {
					gt, size, err := extent.Derive(spec)
					if err != nil {
						return err
					}
					printGeoTransform(cmd, gt, size)
					return nil
				}
			}
			d, err := a.openDomain()
			if err != nil {
				return err
			}
			defer d.Close()
			gt, ok := d.GeoTransform()
			if !ok {
				return fmt.Errorf("domain has no geotransform")
			}
			printGeoTransform(cmd, gt, d.Size())
			return nil
		},
	}
}

func printGeoTransform(cmd *cobra.Command, gt extent.GeoTransform, size extent.RasterSize) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size: %d x %d\n", size.Width, size.Height)
	fmt.Fprintf(out, "geotransform: %s %s %s %s %s %s\n",
		formatFloat(gt[0]), formatFloat(gt[1]), formatFloat(gt[2]),
		formatFloat(gt[3]), formatFloat(gt[4]), formatFloat(gt[5]))
	b := gt.Bounds(size)
	fmt.Fprintf(out, "bounds: %s %s %s %s\n", formatFloat(b[0]), formatFloat(b[1]), formatFloat(b[2]), formatFloat(b[3]))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print size, projection and corners of a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDomain()
			if err != nil {
				return err
			}
			defer d.Close()
			fmt.Fprint(cmd.OutOrStdout(), d.String())
			return nil
		},
	}
}

func (a *app) newWKTCmd() *cobra.Command {
	var (
		points  int
		postgis bool
	)
	cmd := &cobra.Command{
		Use:   "wkt",
		Short: "Print the border polygon of a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.openDomain()
			if err != nil {
				return err
			}
			defer d.Close()
			var s string
			if postgis {
				s, err = d.BorderPostGIS(points)
			} else {
				s, err = d.BorderWKT(points)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().IntVarP(&points, "points", "n", border.DefaultPoints, "points per border side")
	cmd.Flags().BoolVar(&postgis, "postgis", false, "wrap the polygon in PolygonFromText('...')")
	return cmd
}

func (a *app) newKMLCmd() *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "kml OUTPUT",
		Short: "Write the border of a domain, or of every domain in an XML list, to KML",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if list != "" {
				return Godomain.WriteKMLFromList(list, args[0], a.logger)
			}
			d, err := a.openDomain()
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.WriteKML(args[0]); err != nil {
				return err
			}
			a.logger.Info("kml written", "path", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "XML domain list")
	return cmd
}

func (a *app) newKMLImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kml-image OUTPUT FIGURE",
		Short: "Write a KML ground overlay placing FIGURE on the domain corners",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := a.openDomain()
			if err != nil {
				return err
			}
			defer d.Close()
			return d.WriteKMLImage(args[0], args[1])
		},
	}
}
