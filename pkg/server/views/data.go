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

package views

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pagemark/pagemark/pkg/server/log"
)

const (
	// AlertLvlError is an alert level for errors
	AlertLvlError = "danger"
	// AlertLvlWarning is an alert level for warnings
	AlertLvlWarning = "warning"
	// AlertLvlInfo is an alert level for information
	AlertLvlInfo = "info"
	// AlertLvlSuccess is an alert level for successes
	AlertLvlSuccess = "success"

	// AlertMsgGeneric is shown for errors that are not safe to show to users
	AlertMsgGeneric = "Something went wrong. Please try again."

	alertLevelCookie   = "alert_level"
	alertMessageCookie = "alert_message"
)

// PublicError is an error whose message can be shown to users
type PublicError interface {
	error
	Public() string
}

// Alert is a message shown at the top of a page
type Alert struct {
	Level   string
	Message string
}

// Data is the data passed to templates
type Data struct {
	Alert     *Alert
	BodyAlert *Alert
	User      *database.User
	Yield     map[string]interface{}
}

// SetAlert sets an alert for the given error. Errors that are not public
// are logged and shown with a generic message.
func (d *Data) SetAlert(err error, alertInBody bool) {
	var msg string
	if pErr, ok := err.(PublicError); ok {
		msg = pErr.Public()
	} else {
		log.ErrorWrap(err, "rendering an error")
		msg = AlertMsgGeneric
	}

	d.PutAlert(Alert{Level: AlertLvlError, Message: msg}, alertInBody)
}

// PutAlert puts the given alert in the data
func (d *Data) PutAlert(alert Alert, alertInBody bool) {
	if alertInBody {
		d.BodyAlert = &alert
	} else {
		d.Alert = &alert
	}
}

func persistAlert(w http.ResponseWriter, alert Alert) {
	expiresAt := time.Now().Add(5 * time.Minute)

	http.SetCookie(w, &http.Cookie{
		Name:     alertLevelCookie,
		Value:    alert.Level,
		Expires:  expiresAt,
		HttpOnly: true,
		Path:     "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:     alertMessageCookie,
		Value:    url.QueryEscape(alert.Message),
		Expires:  expiresAt,
		HttpOnly: true,
		Path:     "/",
	})
}

func clearAlert(w http.ResponseWriter) {
	for _, name := range []string{alertLevelCookie, alertMessageCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Path:     "/",
		})
	}
}

func getAlert(r *http.Request) *Alert {
	lvl, err := r.Cookie(alertLevelCookie)
	if err != nil {
		return nil
	}
	msg, err := r.Cookie(alertMessageCookie)
	if err != nil {
		return nil
	}

	message, err := url.QueryUnescape(msg.Value)
	if err != nil {
		return nil
	}

	return &Alert{
		Level:   lvl.Value,
		Message: message,
	}
}

// RedirectAlert redirects to the given url and shows the alert on the next page
func RedirectAlert(w http.ResponseWriter, r *http.Request, urlStr string, code int, alert Alert) {
	persistAlert(w, alert)
	http.Redirect(w, r, urlStr, code)
}
