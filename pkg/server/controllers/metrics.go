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

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetrics creates a new Metrics controller
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// Metrics exposes the prometheus metrics of the process
type Metrics struct {
	handler http.Handler
}

// Index serves the metrics in the prometheus text format
func (m *Metrics) Index(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
