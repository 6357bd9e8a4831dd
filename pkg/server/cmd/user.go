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

package cmd

import (
	"fmt"

	"github.com/pagemark/pagemark/pkg/server/app"
	"github.com/pagemark/pagemark/pkg/server/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserRemoveCmd())
	cmd.AddCommand(newUserResetPasswordCmd())

	return cmd
}

func userNotFound(email string, err error) error {
	if errors.Is(err, app.ErrNotFound) {
		return errors.Errorf("user with email %s not found", email)
	}

	return errors.Wrap(err, "finding user")
}

func newUserCreateCmd() *cobra.Command {
	var (
		db       dbFlags
		email    string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag(email, "email"); err != nil {
				return err
			}
			if err := requireFlag(password, "password"); err != nil {
				return err
			}

			a, cleanup, err := setupApp(db.params())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := a.CreateUser(email, password, password)
			if err != nil {
				return errors.Wrap(err, "creating user")
			}
			role := database.RoleUser
			if admin {
				role = database.RoleAdmin
				if err := a.UpdateUserRole(&user, role); err != nil {
					return errors.Wrap(err, "granting admin role")
				}
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "User created successfully")
			printDetail(out, "Email", user.Email.String)
			printDetail(out, "Role", role)

			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&email, "email", "", "User email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "User password (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the admin role")

	return cmd
}

func newUserRemoveCmd() *cobra.Command {
	var (
		db    dbFlags
		email string
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a user along with their books and reading sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag(email, "email"); err != nil {
				return err
			}

			a, cleanup, err := setupApp(db.params())
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := a.GetUserByEmail(email); err != nil {
				return userNotFound(email, err)
			}

			ok, err := confirm(cmd, fmt.Sprintf("Remove user %s and all of their data?", email))
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted by user")
				return nil
			}

			if err := a.RemoveUser(email); err != nil {
				return errors.Wrap(err, "removing user")
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "User removed successfully")
			printDetail(out, "Email", email)

			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&email, "email", "", "User email address (required)")

	return cmd
}

func newUserResetPasswordCmd() *cobra.Command {
	var (
		db       dbFlags
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag(email, "email"); err != nil {
				return err
			}
			if err := requireFlag(password, "password"); err != nil {
				return err
			}

			a, cleanup, err := setupApp(db.params())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := a.GetUserByEmail(email)
			if err != nil {
				return userNotFound(email, err)
			}

			if err := a.UpdateUserPassword(user, password); err != nil {
				return errors.Wrap(err, "updating password")
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Password reset successfully")
			printDetail(out, "Email", email)

			return nil
		},
	}

	db.register(cmd)
	cmd.Flags().StringVar(&email, "email", "", "User email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password (required)")

	return cmd
}
