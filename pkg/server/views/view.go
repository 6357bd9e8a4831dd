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
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/pagemark/pagemark/pkg/clock"
	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/buildinfo"
	"github.com/pagemark/pagemark/pkg/server/context"
	"github.com/pagemark/pagemark/pkg/server/log"
)

const (
	// TemplateExt is the template extension
	TemplateExt string = ".gohtml"
)

const (
	siteTitle = "Pagemark"
)

// Config is a view config
type Config struct {
	Title       string
	Layout      string
	HelperFuncs map[string]interface{}
	AlertInBody bool
	Clock       clock.Clock
}

func (c Config) getLayout() string {
	if c.Layout == "" {
		return "base"
	}

	return c.Layout
}

func (c Config) getClock() clock.Clock {
	if c.Clock != nil {
		return c.Clock
	}

	return clock.New()
}

func (c Config) pageTitle() string {
	if c.Title == "" {
		return siteTitle
	}

	return fmt.Sprintf("%s | %s", c.Title, siteTitle)
}

// View holds the information about a view
type View struct {
	Template *template.Template
	Layout   string
	// AlertInBody specifies if alert should be set in the body instead of the header
	AlertInBody bool
	App         *app.App
}

func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, nil, http.StatusOK)
}

// Render is used to render the view with the predefined layout
func (v *View) Render(w http.ResponseWriter, r *http.Request, data *Data, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var vd Data
	if data != nil {
		vd = *data
	}

	if alert := getAlert(r); alert != nil {
		vd.PutAlert(*alert, v.AlertInBody)
		clearAlert(w)
	}

	vd.User = context.User(r.Context())

	if vd.Yield == nil {
		vd.Yield = map[string]interface{}{}
	}
	if vd.User != nil {
		vd.Yield["UserEmail"] = vd.User.Email.String
		vd.Yield["IsAdmin"] = vd.User.IsAdmin()
	}
	vd.Yield["CurrentPath"] = r.URL.Path
	vd.Yield["Version"] = buildinfo.Version
	if v.App != nil {
		vd.Yield["AssetBaseURL"] = v.App.AssetBaseURL
		vd.Yield["GitHubEnabled"] = v.App.GitHub != nil
		vd.Yield["RegistrationEnabled"] = !v.App.DisableRegistration
	}

	csrfField := csrf.TemplateField(r)
	tpl, err := v.Template.Clone()
	if err != nil {
		v.fail(w, r, err)
		return
	}
	tpl = tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML {
			return csrfField
		},
	})

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, v.Layout, vd); err != nil {
		v.fail(w, r, err)
		return
	}

	w.WriteHeader(statusCode)
	io.Copy(w, &buf)
}

func (v *View) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.ErrorWrap(err, fmt.Sprintf("executing template for URI '%s'", r.RequestURI))
	w.WriteHeader(http.StatusInternalServerError)
	if v.App != nil {
		w.Write(v.App.HTTP500Page)
	}
}
