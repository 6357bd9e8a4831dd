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
	"errors"
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/helpers"
	"github.com/pagemark/pagemark/pkg/server/validate"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ReadingSessionParams holds the writable fields of a reading session
type ReadingSessionParams struct {
	BookUUID  *string    `json:"book_uuid" validate:"omitempty,uuid4"`
	Date      *time.Time `json:"date"`
	PagesRead *int       `json:"pages_read" validate:"omitempty,min=0"`
	Duration  *int       `json:"duration" validate:"omitempty,min=0"`
	Finished  *bool      `json:"finished"`
}

func (p ReadingSessionParams) updates() map[string]interface{} {
	ret := map[string]interface{}{}

	if p.BookUUID != nil {
		ret["book_uuid"] = *p.BookUUID
	}
	if p.Date != nil {
		ret["date"] = p.Date.UTC()
	}
	if p.PagesRead != nil {
		ret["pages_read"] = *p.PagesRead
	}
	if p.Duration != nil {
		ret["duration"] = *p.Duration
	}
	if p.Finished != nil {
		ret["finished"] = *p.Finished
	}

	return ret
}

func (a *App) userReadingSessions(user database.User) *gorm.DB {
	return a.DB.Model(&database.ReadingSession{}).Where("user_id = ?", user.ID)
}

// CreateReadingSession records a reading session for one of the user's books
func (a *App) CreateReadingSession(user database.User, p ReadingSessionParams) (database.ReadingSession, error) {
	if p.BookUUID == nil || *p.BookUUID == "" {
		return database.ReadingSession{}, ErrBookUUIDRequired
	}
	if err := validate.Struct(p); err != nil {
		return database.ReadingSession{}, err
	}

	if _, err := a.GetBook(user, *p.BookUUID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return database.ReadingSession{}, ErrBookNotFound
		}
		return database.ReadingSession{}, err
	}

	userID := user.ID
	s := database.ReadingSession{
		UserID:   &userID,
		BookUUID: *p.BookUUID,
		Date:     a.Clock.Now().UTC(),
	}
	if p.Date != nil {
		s.Date = p.Date.UTC()
	}
	if p.PagesRead != nil {
		s.PagesRead = *p.PagesRead
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Finished != nil {
		s.Finished = *p.Finished
	}

	if err := a.DB.Create(&s).Error; err != nil {
		return database.ReadingSession{}, pkgErrors.Wrap(err, "inserting reading session")
	}

	return s, nil
}

// GetReadingSession returns the user's reading session of the given uuid
func (a *App) GetReadingSession(user database.User, uuid string) (database.ReadingSession, error) {
	var s database.ReadingSession
	if !helpers.ValidateUUID(uuid) {
		return s, ErrNotFound
	}

	err := a.userReadingSessions(user).Where("uuid = ?", uuid).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s, ErrNotFound
	} else if err != nil {
		return s, pkgErrors.Wrap(err, "finding reading session")
	}

	return s, nil
}

// GetReadingSessions returns all reading sessions of the user, newest first
func (a *App) GetReadingSessions(user database.User) ([]database.ReadingSession, error) {
	sessions := []database.ReadingSession{}
	if err := a.userReadingSessions(user).Order("date DESC, id DESC").Find(&sessions).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding reading sessions")
	}

	return sessions, nil
}

// GetBookReadingSessions returns the reading sessions of the user's book in
// chronological order
func (a *App) GetBookReadingSessions(user database.User, bookUUID string) ([]database.ReadingSession, error) {
	sessions := []database.ReadingSession{}
	err := a.userReadingSessions(user).
		Where("book_uuid = ?", bookUUID).
		Order("date ASC, id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "finding book reading sessions")
	}

	return sessions, nil
}

// UpdateReadingSession updates the given fields of the user's reading session
func (a *App) UpdateReadingSession(user database.User, uuid string, p ReadingSessionParams) (database.ReadingSession, error) {
	if p.BookUUID != nil && *p.BookUUID == "" {
		return database.ReadingSession{}, ErrBookUUIDRequired
	}
	if err := validate.Struct(p); err != nil {
		return database.ReadingSession{}, err
	}

	s, err := a.GetReadingSession(user, uuid)
	if err != nil {
		return s, err
	}

	if p.BookUUID != nil && *p.BookUUID != s.BookUUID {
		if _, err := a.GetBook(user, *p.BookUUID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return s, ErrBookNotFound
			}
			return s, err
		}
	}

	updates := p.updates()
	if len(updates) == 0 {
		return s, nil
	}

	if err := a.DB.Model(&s).Updates(updates).Error; err != nil {
		return s, pkgErrors.Wrap(err, "updating reading session")
	}

	return a.GetReadingSession(user, uuid)
}

// DeleteReadingSession deletes the user's reading session. It returns false
// if no such session exists.
func (a *App) DeleteReadingSession(user database.User, uuid string) (bool, error) {
	res := a.DB.Where("user_id = ? AND uuid = ?", user.ID, uuid).Delete(&database.ReadingSession{})
	if res.Error != nil {
		return false, pkgErrors.Wrap(res.Error, "deleting reading session")
	}

	return res.RowsAffected > 0, nil
}
