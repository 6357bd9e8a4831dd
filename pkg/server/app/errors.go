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

type appError string

func (e appError) Error() string {
	return string(e)
}

// Public returns the message that can be shown to users
func (e appError) Public() string {
	return string(e)
}

var (
	// ErrNotFound an error that indicates that the given resource is not found
	ErrNotFound appError = "not found"
	// ErrLoginInvalid is an error for invalid login
	ErrLoginInvalid appError = "Wrong email and password combination"
	// ErrLoginRequired is an error for not authenticated
	ErrLoginRequired appError = "login required"
	// ErrForbidden is an error for a user lacking the required role
	ErrForbidden appError = "forbidden"

	// ErrDuplicateEmail is an error for duplicate email
	ErrDuplicateEmail appError = "duplicate email"
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired appError = "Please enter an email"
	// ErrEmailTooLong is an error for an email exceeding the length limit
	ErrEmailTooLong appError = "Email is too long"
	// ErrPasswordRequired is an error for missing email
	ErrPasswordRequired appError = "Please enter a password"
	// ErrPasswordTooShort is an error for short password
	ErrPasswordTooShort appError = "password should be longer than 8 characters"
	// ErrPasswordConfirmationMismatch is an error for password ans password confirmation not matching
	ErrPasswordConfirmationMismatch appError = "password confirmation does not match password"
	// ErrRegistrationDisabled is an error for a sign up attempt while registration is closed
	ErrRegistrationDisabled appError = "registration is disabled"

	// ErrTitleRequired is an error for a book without a title
	ErrTitleRequired appError = "title is required"
	// ErrAuthorRequired is an error for a book without an author
	ErrAuthorRequired appError = "author is required"
	// ErrBookUUIDRequired is an error for a reading session without a book
	ErrBookUUIDRequired appError = "book_uuid is required"
	// ErrBookNotFound is an error for a reading session referencing an unknown book
	ErrBookNotFound appError = "book not found"

	// ErrGitHubNotConfigured is an error for a GitHub sign-in attempt without OAuth credentials
	ErrGitHubNotConfigured appError = "GitHub sign-in is not configured"
	// ErrGitHubEmailUnverified is an error for a GitHub account with no verified email
	ErrGitHubEmailUnverified appError = "the GitHub account has no verified email"
	// ErrInvalidOAuthState is an error for an OAuth callback with a mismatching state
	ErrInvalidOAuthState appError = "invalid oauth state"
)
