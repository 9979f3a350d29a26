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

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	Godomain "github.com/GrainArc/Godomain"
	"github.com/GrainArc/Godomain/catalog"
)

func (a *app) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage stored domains",
	}
	cmd.AddCommand(
		a.newCatalogAddCmd(),
		a.newCatalogImportCmd(),
		a.newCatalogListCmd(),
		a.newCatalogShowCmd(),
		a.newCatalogRemoveCmd(),
	)
	return cmd
}

func (a *app) withCatalog(fn func(c *catalog.Catalog) error) error {
	c, err := catalog.Open(a.v.GetString("db"), a.logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func (a *app) newCatalogAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a domain from --srs/--ext or --dataset and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.params()
			p.Name = args[0]
			d, err := Godomain.New(p)
			if err != nil {
				return err
			}
			defer d.Close()
			return a.withCatalog(func(c *catalog.Catalog) error {
				id, err := Godomain.SaveDomain(c, d)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func (a *app) newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import LIST.xml",
		Short: "Store every domain of an XML domain list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := catalog.LoadDomainList(args[0])
			if err != nil {
				return err
			}
			return a.withCatalog(func(c *catalog.Catalog) error {
				recs, err := list.Import(c)
				for _, rec := range recs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.ID, rec.Name)
				}
				return err
			})
		},
	}
}

func (a *app) newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCatalog(func(c *catalog.Catalog) error {
				recs, err := c.List()
				if err != nil {
					return err
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					BorderStyle(subtitleStyle).
					StyleFunc(func(row, _ int) lipgloss.Style {
						if row == table.HeaderRow {
							return headerStyle
						}
						return cellStyle
					}).
					Headers("ID", "NAME", "SIZE", "SRS", "EXTENT")
				for _, rec := range recs {
					size := strconv.Itoa(rec.Width) + "x" + strconv.Itoa(rec.Height)
					t.Row(rec.ID, rec.Name, size, rec.SRS, rec.Extent)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
}

func (a *app) newCatalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Rebuild a stored domain and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(func(c *catalog.Catalog) error {
				rec, err := c.Get(args[0])
				if err != nil {
					return err
				}
				d, err := Godomain.OpenRecord(rec, Godomain.WithLogger(a.logger))
				if err != nil {
					return err
				}
				defer d.Close()
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s", rec.Name, rec.ID, d.String())
				return nil
			})
		},
	}
}

func (a *app) newCatalogRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a stored domain",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withCatalog(func(c *catalog.Catalog) error {
				return c.Delete(args[0])
			})
		},
	}
}
