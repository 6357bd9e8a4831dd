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
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/go-github/github"
	"github.com/pagemark/pagemark/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/oauth2"
	oauthGitHub "golang.org/x/oauth2/github"
	"gorm.io/gorm"
)

// NewGitHubOAuthConfig returns the OAuth configuration for GitHub sign-in.
// It returns nil if the client credentials are not set.
func NewGitHubOAuthConfig(clientID, clientSecret, webURL string) *oauth2.Config {
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimSuffix(webURL, "/") + "/auth/github/callback",
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     oauthGitHub.Endpoint,
	}
}

// GitHubProfile is the part of a GitHub account used to sign in
type GitHubProfile struct {
	ID    int64
	Login string
	Name  string
	// Email is the verified primary email
	Email string
}

// GitHubAuthCodeURL returns the URL to redirect a user to for GitHub consent
func (a *App) GitHubAuthCodeURL(state string) (string, error) {
	if a.GitHub == nil {
		return "", ErrGitHubNotConfigured
	}

	return a.GitHub.AuthCodeURL(state), nil
}

// FetchGitHubProfile exchanges the authorization code and reads the profile
// of the GitHub account that granted it
func (a *App) FetchGitHubProfile(ctx context.Context, code string) (GitHubProfile, error) {
	if a.GitHub == nil {
		return GitHubProfile{}, ErrGitHubNotConfigured
	}

	if a.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.HTTPClient)
	}
	tok, err := a.GitHub.Exchange(ctx, code)
	if err != nil {
		return GitHubProfile{}, pkgErrors.Wrap(err, "exchanging code")
	}

	client := github.NewClient(a.GitHub.Client(ctx, tok))
	if a.GitHubAPIURL != "" {
		u, err := url.Parse(strings.TrimSuffix(a.GitHubAPIURL, "/") + "/")
		if err != nil {
			return GitHubProfile{}, pkgErrors.Wrap(err, "parsing GitHub API URL")
		}
		client.BaseURL = u
	}

	return fetchGitHubProfile(ctx, client)
}

func fetchGitHubProfile(ctx context.Context, client *github.Client) (GitHubProfile, error) {
	u, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return GitHubProfile{}, pkgErrors.Wrap(err, "getting GitHub user")
	}

	emails, _, err := client.Users.ListEmails(ctx, nil)
	if err != nil {
		return GitHubProfile{}, pkgErrors.Wrap(err, "listing GitHub emails")
	}

	var email string
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			email = e.GetEmail()
			break
		}
	}
	if email == "" {
		return GitHubProfile{}, ErrGitHubEmailUnverified
	}

	return GitHubProfile{
		ID:    u.GetID(),
		Login: u.GetLogin(),
		Name:  u.GetName(),
		Email: email,
	}, nil
}

// SignInWithGitHub finds the user linked to the GitHub account, links an
// existing user with the same email, or creates a new user
func (a *App) SignInWithGitHub(p GitHubProfile, meta SessionMeta) (*database.User, *database.Session, error) {
	if p.Email == "" {
		return nil, nil, ErrGitHubEmailUnverified
	}

	var user database.User
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("github_id = ?", p.ID).First(&user).Error
		if err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgErrors.Wrap(err, "finding user by GitHub id")
		}

		email := normalizeEmail(p.Email)
		err = tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if a.DisableRegistration {
				return ErrRegistrationDisabled
			}

			name := p.Name
			if name == "" {
				name = p.Login
			}
			user = database.User{
				Email: database.ToNullString(email),
				Name:  name,
				Role:  database.RoleUser,
			}
			if err := tx.Create(&user).Error; err != nil {
				return pkgErrors.Wrap(err, "creating user")
			}
		} else if err != nil {
			return pkgErrors.Wrap(err, "finding user by email")
		}

		githubID := p.ID
		if err := tx.Model(&user).Update("github_id", &githubID).Error; err != nil {
			return pkgErrors.Wrap(err, "linking GitHub account")
		}
		user.GitHubID = &githubID

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := a.SignIn(&user, meta)
	if err != nil {
		return nil, nil, err
	}

	return &user, session, nil
}
