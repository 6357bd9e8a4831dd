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

// Package token generates the opaque random values used for session keys
// and OAuth state.
package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

const (
	// SessionKeyBytes is the number of random bytes in a session key
	SessionKeyBytes = 32
	// StateBytes is the number of random bytes in an OAuth state value
	StateBytes = 16
)

// Generate returns a URL-safe base64 encoding of n random bytes
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", errors.Errorf("invalid token length %d", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// SessionKey returns a new login session key
func SessionKey() (string, error) {
	return Generate(SessionKeyBytes)
}

// State returns a new OAuth state value
func State() (string, error) {
	return Generate(StateBytes)
}
