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
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Book is a model for a tracked book
type Book struct {
	Model
	UUID            string           `json:"uuid" gorm:"uniqueIndex;type:text"`
	UserID          *int             `json:"-" gorm:"index"`
	Title           string           `json:"title" gorm:"not null"`
	Author          string           `json:"author" gorm:"not null"`
	Format          string           `json:"format"`
	PageCount       int              `json:"page_count"`
	ISBN            string           `json:"isbn" gorm:"column:isbn"`
	AuthorSex       string           `json:"author_sex" gorm:"default:Unknown"`
	Recommended     bool             `json:"recommended"`
	Genre           string           `json:"genre"`
	PublishedYear   int              `json:"published_year"`
	Publisher       string           `json:"publisher"`
	DateAcquired    time.Time        `json:"date_acquired"`
	DateRemoved     *time.Time       `json:"date_removed"`
	Cost            float64          `json:"cost"`
	StartingPage    int              `json:"starting_page" gorm:"default:0"`
	Finished        bool             `json:"finished" gorm:"index"`
	ReadingSessions []ReadingSession `json:"-" gorm:"foreignKey:BookUUID;references:UUID;constraint:OnDelete:CASCADE"`
}

// ReadingSession is a model for a single reading event of a book
type ReadingSession struct {
	Model
	UUID      string    `json:"uuid" gorm:"uniqueIndex;type:text"`
	UserID    *int      `json:"-" gorm:"index"`
	BookUUID  string    `json:"book_uuid" gorm:"index;type:text;not null"`
	Date      time.Time `json:"date" gorm:"index"`
	PagesRead int       `json:"pages_read"`
	// Duration is in seconds
	Duration int  `json:"duration"`
	Finished bool `json:"finished"`
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;uniqueIndex"`
	Email       NullString `gorm:"index"`
	Password    NullString `json:"-"`
	Name        string     `json:"name"`
	Role        string     `json:"role" gorm:"default:user"`
	GitHubID    *int64     `json:"-" gorm:"column:github_id;index"`
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a login session of a user
type Session struct {
	Model
	UUID       string `gorm:"uniqueIndex;type:text"`
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	IPAddress  string
	UserAgent  string
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

func newUUID(current string) string {
	if current != "" {
		return current
	}

	return uuid.NewString()
}

// BeforeCreate assigns a uuid to the book if it has none
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	b.UUID = newUUID(b.UUID)
	return nil
}

// BeforeCreate assigns a uuid to the reading session if it has none
func (s *ReadingSession) BeforeCreate(tx *gorm.DB) error {
	s.UUID = newUUID(s.UUID)
	return nil
}

// BeforeCreate assigns a uuid to the user if it has none
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.UUID = newUUID(u.UUID)
	return nil
}

// BeforeCreate assigns a uuid to the session if it has none
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	s.UUID = newUUID(s.UUID)
	return nil
}

// IsAdmin reports whether the user has the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
