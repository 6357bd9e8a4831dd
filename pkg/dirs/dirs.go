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

// Package dirs resolves the XDG base directories Pagemark keeps its files in
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

const appName = "pagemark"

var (
	// Home is the home directory of the user
	Home string
	// ConfigHome is the base directory for user-specific configuration
	ConfigHome string
	// DataHome is the base directory for user-specific data files
	DataHome string
)

func init() {
	Reload()
}

// Reload re-reads the directories from the environment
func Reload() {
	Home = homeDir()
	ConfigHome = fromEnv("XDG_CONFIG_HOME", filepath.Join(Home, ".config"))
	DataHome = fromEnv("XDG_DATA_HOME", filepath.Join(Home, ".local", "share"))
}

// DataDir is the directory holding the server database by default
func DataDir() string {
	return filepath.Join(DataHome, appName)
}

// ConfigFile is the config file read when none is given explicitly
func ConfigFile() string {
	return filepath.Join(ConfigHome, appName, appName+".yml")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	usr, err := user.Current()
	if err != nil {
		panic(errors.Wrap(err, "getting home dir"))
	}

	return usr.HomeDir
}

func fromEnv(key, fallback string) string {
	if dir := os.Getenv(key); dir != "" {
		return dir
	}

	return fallback
}
