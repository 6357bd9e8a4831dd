/* Copyright 2025 Pagemark Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pagemark/pagemark/pkg/server/config"
	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pagemark-server",
		Short:         "Pagemark server - track the books you read",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point for the CLI
func Execute() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.ErrorWrap(err, "loading .env")
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "%s %s\n", color.New(color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}
