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
	"net/http"
	"time"

	"github.com/pagemark/pagemark/pkg/server/buildinfo"
	"github.com/pagemark/pagemark/pkg/server/config"
	"github.com/pagemark/pagemark/pkg/server/controllers"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	checkpointInterval = 5 * time.Minute
	vacuumInterval     = 24 * time.Hour
)

type startOptions struct {
	db                  dbFlags
	port                string
	webURL              string
	disableRegistration bool
	logLevel            string
}

func (o startOptions) params() config.Params {
	p := o.db.params()
	p.Port = o.port
	p.WebURL = o.webURL
	p.DisableRegistration = o.disableRegistration
	p.LogLevel = o.logLevel

	return p
}

func newStartCmd() *cobra.Command {
	var opts startOptions

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStart(opts)
		},
	}

	opts.db.register(cmd)
	cmd.Flags().StringVar(&opts.port, "port", "", "Server port (env: PORT, default: 3001)")
	cmd.Flags().StringVar(&opts.webURL, "webUrl", "", "Full URL to server without trailing slash (env: WebURL, default: http://localhost:3001)")
	cmd.Flags().BoolVar(&opts.disableRegistration, "disableRegistration", false, "Disable user registration (env: DisableRegistration, default: false)")
	cmd.Flags().StringVar(&opts.logLevel, "logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	return cmd
}

func runStart(opts startOptions) error {
	cfg, err := config.New(opts.params())
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer closeDB(a.DB)

	scheduler, err := database.StartMaintenance(a.DB, checkpointInterval, vacuumInterval)
	if err != nil {
		return errors.Wrap(err, "starting database maintenance")
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	ctl := controllers.New(a)
	rc := controllers.RouteConfig{
		WebRoutes:   controllers.NewWebRoutes(a, ctl),
		APIRoutes:   controllers.NewAPIRoutes(a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	log.WithFields(log.Fields{
		"version":      buildinfo.Version,
		"port":         cfg.Port,
		"github_login": a.GitHub != nil,
	}).Info("Pagemark server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		return errors.Wrap(err, "server failed")
	}

	return nil
}
