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
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	Godomain "github.com/GrainArc/Godomain"
)

const envPrefix = "GODOMAIN"

// app 命令共享的配置和日志
type app struct {
	v      *viper.Viper
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "godomain",
		Short:         "Raster domains from extent strings",
		Long:          "godomain builds raster georeferencing from a spatial reference and an extent string\nsuch as \"-te 100 2000 300 10000 -tr 300 200\", or from an existing dataset.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("srs", "", "spatial reference: EPSG code, Proj4 or WKT")
	flags.String("ext", "", "extent string, e.g. \"-te 0 0 10 10 -ts 100 100\"")
	flags.String("dataset", "", "raster dataset to copy the georeference from")
	flags.String("db", "godomain.db", "catalog database path")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	for _, name := range []string{"srs", "ext", "dataset", "db", "log-level"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.newGeoTransformCmd(),
		a.newInfoCmd(),
		a.newWKTCmd(),
		a.newKMLCmd(),
		a.newKMLImageCmd(),
		a.newCatalogCmd(),
	)
	root.SetErrPrefix("godomain:")
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level, err := log.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "godomain", Level: level})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", "path", used)
	}
	return nil
}

// params 由全局参数组合Domain参数
func (a *app) params() Godomain.Params {
	return Godomain.Params{
		SRS:     a.v.GetString("srs"),
		Extent:  a.v.GetString("ext"),
		Dataset: a.v.GetString("dataset"),
		Logger:  a.logger,
	}
}

func (a *app) openDomain() (*Godomain.Domain, error) {
	return Godomain.New(a.params())
}
