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

// Package cli implements the ifxgen command line.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

type app struct {
	log      *slog.Logger
	logLevel string
}

// NewRootCmd returns the ifxgen root command with all sub-commands.
func NewRootCmd(version string) *cobra.Command {
	a := &app{log: slog.Default()}

	root := &cobra.Command{
		Use:   "ifxgen",
		Short: "Generate forwarding adapters for Go interfaces",
		Long: `ifxgen writes, for every interface listed in a config file, an adapter type
that forwards each member access to an ifx handler, and registers the
adapter with ifx when the package is initialized.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "ifxgen version %s\n" .Version}}`)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", s, err)
	}
	return level, nil
}
