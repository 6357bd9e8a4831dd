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
	"strings"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxEmailLength = 254

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

func validatePassword(password, passwordConfirmation string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if password != passwordConfirmation {
		return ErrPasswordConfirmationMismatch
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser creates a user
func (a *App) CreateUser(email, password string, passwordConfirmation string) (database.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(email) > maxEmailLength {
		return database.User{}, ErrEmailTooLong
	}
	if err := validatePassword(password, passwordConfirmation); err != nil {
		return database.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	user := database.User{
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
		Role:     database.RoleUser,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return pkgErrors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(&user).Error; err != nil {
			return pkgErrors.Wrap(err, "saving user")
		}
		if err := a.TouchLastLoginAt(user, tx); err != nil {
			return pkgErrors.Wrap(err, "updating last login")
		}

		return nil
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// UpdateUserRole sets the role of the user
func (a *App) UpdateUserRole(user *database.User, role string) error {
	if role != database.RoleUser && role != database.RoleAdmin {
		return pkgErrors.Errorf("unknown role %q", role)
	}

	if err := a.DB.Model(user).Update("role", role).Error; err != nil {
		return pkgErrors.Wrap(err, "updating role")
	}

	return nil
}

// GetUserByEmail finds a user by email
func (a *App) GetUserByEmail(email string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	// Accounts created through GitHub have no password
	if !user.Password.Valid {
		return nil, ErrLoginInvalid
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User, meta SessionMeta) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID, meta)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// UpdateUserPassword replaces the password of the user and invalidates all
// of their sessions
func (a *App) UpdateUserPassword(user *database.User, password string) error {
	if err := validatePassword(password, password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password", database.ToNullString(string(hashedPassword))).Error; err != nil {
			return pkgErrors.Wrap(err, "updating password")
		}
		if err := a.DeleteUserSessions(tx, user.ID); err != nil {
			return pkgErrors.Wrap(err, "deleting user sessions")
		}

		return nil
	})
}

// RemoveUser deletes the user of the given email along with their books,
// reading sessions and login sessions
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.ReadingSession{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting reading sessions")
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Book{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting books")
		}
		if err := a.DeleteUserSessions(tx, user.ID); err != nil {
			return pkgErrors.Wrap(err, "deleting sessions")
		}
		if err := tx.Delete(user).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting user")
		}

		return nil
	})
}

// UserStats is a user along with the size of their library
type UserStats struct {
	database.User
	BookCount           int64
	ReadingSessionCount int64
}

// GetUsersWithStats returns every user with their book and reading session counts
func (a *App) GetUsersWithStats() ([]UserStats, error) {
	var users []database.User
	if err := a.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding users")
	}

	type countRow struct {
		UserID int
		Count  int64
	}
	count := func(model interface{}) (map[int]int64, error) {
		var rows []countRow
		err := a.DB.Model(model).
			Select("user_id, COUNT(*) AS count").
			Where("user_id IS NOT NULL").
			Group("user_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		ret := map[int]int64{}
		for _, r := range rows {
			ret[r.UserID] = r.Count
		}
		return ret, nil
	}

	bookCounts, err := count(&database.Book{})
	if err != nil {
		return nil, pkgErrors.Wrap(err, "counting books")
	}
	sessionCounts, err := count(&database.ReadingSession{})
	if err != nil {
		return nil, pkgErrors.Wrap(err, "counting reading sessions")
	}

	ret := make([]UserStats, 0, len(users))
	for _, u := range users {
		ret = append(ret, UserStats{
			User:                u,
			BookCount:           bookCounts[u.ID],
			ReadingSessionCount: sessionCounts[u.ID],
		})
	}

	return ret, nil
}
