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

package database

import (
	"fmt"
	"time"

	"github.com/pagemark/pagemark/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

// checkpointWAL moves the write-ahead log into the main database file and truncates it
func checkpointWAL(db *gorm.DB) error {
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return errors.Wrap(err, "checkpointing WAL")
	}

	return nil
}

// vacuum rebuilds the database file to reclaim free pages
func vacuum(db *gorm.DB) error {
	if err := db.Exec("VACUUM").Error; err != nil {
		return errors.Wrap(err, "vacuuming")
	}

	return nil
}

func runJob(name string, fn func() error) func() {
	return func() {
		start := time.Now()
		if err := fn(); err != nil {
			log.WithFields(log.Fields{
				"job": name,
			}).ErrorWrap(err, "running maintenance job")
			return
		}

		log.WithFields(log.Fields{
			"job":      name,
			"duration": time.Since(start).String(),
		}).Debug("Maintenance job done.")
	}
}

// StartMaintenance schedules the periodic WAL checkpoint and VACUUM for
// SQLite databases. It returns nil for other drivers. The caller stops the
// returned scheduler on shutdown.
func StartMaintenance(db *gorm.DB, checkpointEvery, vacuumEvery time.Duration) (*cron.Cron, error) {
	if !isSQLite(db) {
		return nil, nil
	}

	c := cron.New()

	if err := c.AddFunc(fmt.Sprintf("@every %s", checkpointEvery), runJob("wal_checkpoint", func() error {
		return checkpointWAL(db)
	})); err != nil {
		return nil, errors.Wrap(err, "scheduling WAL checkpoint")
	}
	if err := c.AddFunc(fmt.Sprintf("@every %s", vacuumEvery), runJob("vacuum", func() error {
		return vacuum(db)
	})); err != nil {
		return nil, errors.Wrap(err, "scheduling vacuum")
	}

	c.Start()

	return c, nil
}
