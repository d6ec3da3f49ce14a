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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/ifx/gen"
)

func newGenerateCmd(a *app) *cobra.Command {
	var configs []string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write adapters for the interfaces listed in one or more config files",
		Example: `  ifxgen generate
  ifxgen generate -c api/ifxgen.yaml -c store/ifxgen.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgs := make([]*gen.Config, len(configs))
			for i, path := range configs {
				cfg, err := gen.LoadConfig(path)
				if err != nil {
					return err
				}
				cfgs[i] = cfg
			}

			written := make([]string, len(cfgs))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, cfg := range cfgs {
				g.Go(func() error {
					path, err := gen.Generate(ctx, cfg, a.log)
					if err != nil {
						return fmt.Errorf("%s: %w", configs[i], err)
					}
					written[i] = path
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&configs, "config", "c", []string{"ifxgen.yaml"}, "generator config file (repeatable)")
	return cmd
}
