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
	"embed"
	"html/template"
	"io/fs"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

// Engine parses views from a filesystem of templates
type Engine struct {
	fs fs.FS
}

// NewDefaultEngine returns an engine for the embedded templates
func NewDefaultEngine() *Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(errors.Wrap(err, "getting the template filesystem"))
	}

	return &Engine{fs: sub}
}

// NewView parses the template of the given name along with the layouts.
// It panics if the templates cannot be parsed.
func (e *Engine) NewView(a *app.App, c Config, name string) *View {
	funcs := template.FuncMap{
		"csrfField": func() template.HTML {
			return ""
		},
		"title": func() string {
			return c.pageTitle()
		},
		"timeAgo": func(t interface{}) string {
			return timeAgo(c.getClock().Now(), t)
		},
		"percent": formatPercent,
		"date":    formatDate,
	}
	for k, v := range c.HelperFuncs {
		funcs[k] = v
	}

	patterns := []string{"layouts/*.gohtml", name + TemplateExt}

	t, err := template.New("").Funcs(funcs).ParseFS(e.fs, patterns...)
	if err != nil {
		panic(errors.Wrapf(err, "parsing view %s", name))
	}

	return &View{
		Template:    t,
		Layout:      c.getLayout(),
		AlertInBody: c.AlertInBody,
		App:         a,
	}
}
