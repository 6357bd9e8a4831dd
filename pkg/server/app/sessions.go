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

package app

import (
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SessionTTL is how long a login session stays valid
const SessionTTL = 24 * 100 * time.Hour

// SessionMeta describes the client a login session is created for
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// CreateSession returns a new session for the user of the given id
func (a *App) CreateSession(userID int, meta SessionMeta) (database.Session, error) {
	key, err := token.SessionKey()
	if err != nil {
		return database.Session{}, errors.Wrap(err, "generating key")
	}

	now := time.Now()
	session := database.Session{
		UserID:     userID,
		Key:        key,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		LastUsedAt: now,
		ExpiresAt:  now.Add(SessionTTL),
	}

	if err := a.DB.Create(&session).Error; err != nil {
		return database.Session{}, errors.Wrap(err, "saving session")
	}

	return session, nil
}

// GetUserSessions returns the unexpired sessions of the user, most recently used first
func (a *App) GetUserSessions(userID int) ([]database.Session, error) {
	sessions := []database.Session{}
	err := a.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("last_used_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, errors.Wrap(err, "finding sessions")
	}

	return sessions, nil
}

// TouchSession records that the session was just used
func (a *App) TouchSession(session database.Session) error {
	if err := a.DB.Model(&session).Update("last_used_at", time.Now()).Error; err != nil {
		return errors.Wrap(err, "touching session")
	}

	return nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It effectively
// invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting sessions")
	}

	return nil
}

// DeleteUserSession revokes a single session of the user. It returns false
// if the user has no session with the given uuid.
func (a *App) DeleteUserSession(userID int, uuid string) (bool, error) {
	res := a.DB.Where("user_id = ? AND uuid = ?", userID, uuid).Delete(&database.Session{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "deleting session")
	}

	return res.RowsAffected > 0, nil
}

// DeleteSession deletes the session that match the given info
func (a *App) DeleteSession(sessionKey string) error {
	if err := a.DB.Where("key = ?", sessionKey).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting the session")
	}

	return nil
}
