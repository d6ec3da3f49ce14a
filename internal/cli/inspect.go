/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"dirpx.dev/ifx/gen"
)

func newInspectCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "inspect PACKAGE INTERFACE...",
		Short: "Show how the members of interfaces are forwarded",
		Example: `  ifxgen inspect ./internal/testshapes Greeter Store`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := gen.Load(cmd.Context(), dir, args[0], gen.DefaultOutput)
			if err != nil {
				return err
			}
			im := gen.NewImports(pkg.Types)
			for _, name := range args[1:] {
				s, err := gen.Analyze(pkg.Types, gen.Target{Name: name}, im, false)
				if err != nil {
					return err
				}
				a.log.Debug("ifxgen: analyzed interface",
					"origin", s.Origin,
					"properties", len(s.Properties),
					"methods", len(s.Methods),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%s)\n%s\n", s.Name, s.TypeParams, s.Origin, memberTable(s))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory PACKAGE is resolved against")
	return cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// memberTable renders one row per property and plain method of s.
func memberTable(s *gen.Shape) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KIND", "NAME", "SIGNATURE", "FORWARD").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range s.Properties {
		t.Row("property", p.Name, p.Signature(), propertyOps(p))
	}
	for _, m := range s.Methods {
		t.Row("method", m.Name, m.Signature, m.Call.String())
	}
	return t.String()
}

func propertyOps(p *gen.Property) string {
	switch {
	case p.Get && p.Set:
		return "GetProperty, SetProperty"
	case p.Get:
		return "GetProperty"
	default:
		return "SetProperty"
	}
}
