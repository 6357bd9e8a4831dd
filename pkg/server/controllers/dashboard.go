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

package controllers

import (
	"net/http"
	"time"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/presenters"
	"github.com/pagemark/pagemark/pkg/server/views"
)

// NewDashboard creates a new Dashboard controller.
// It panics if the necessary templates are not parsed.
func NewDashboard(app *app.App, viewEngine *views.Engine) *Dashboard {
	return &Dashboard{
		IndexView: viewEngine.NewView(app,
			views.Config{Title: "Currently reading", Layout: "base", Clock: app.Clock},
			"dashboard/index",
		),
		app: app,
	}
}

// Dashboard is a controller for the home page
type Dashboard struct {
	IndexView *views.View
	app       *app.App
}

type dashboardBook struct {
	Book     database.Book
	Progress presenters.Progress
	LastRead *time.Time
}

func lastRead(sessions []database.ReadingSession) *time.Time {
	var ret *time.Time

	for i := range sessions {
		d := sessions[i].Date
		if ret == nil || d.After(*ret) {
			ret = &d
		}
	}

	return ret
}

func (d *Dashboard) getBooks(user database.User) ([]dashboardBook, error) {
	books, err := d.app.GetCurrentlyReadingBooks(user)
	if err != nil {
		return nil, err
	}

	now := d.app.Clock.Now()
	ret := make([]dashboardBook, 0, len(books))
	for _, book := range books {
		sessions, err := d.app.GetBookReadingSessions(user, book.UUID)
		if err != nil {
			return nil, err
		}

		ret = append(ret, dashboardBook{
			Book:     book,
			Progress: presenters.PresentProgress(book, sessions, now),
			LastRead: lastRead(sessions),
		})
	}

	return ret, nil
}

// Index renders the books the user is currently reading
func (d *Dashboard) Index(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{Yield: map[string]interface{}{}}

	user, err := currentUser(r)
	if err != nil {
		handleHTMLError(w, r, err, "getting user", d.IndexView, vd)
		return
	}

	books, err := d.getBooks(user)
	if err != nil {
		handleHTMLError(w, r, err, "getting currently reading books", d.IndexView, vd)
		return
	}

	vd.Yield["Books"] = books
	d.IndexView.Render(w, r, &vd, http.StatusOK)
}
