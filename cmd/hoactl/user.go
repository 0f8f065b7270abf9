package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jo-hoe/hoasite/internal/backend/auth"
	"github.com/spf13/cobra"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage resident accounts",
	}
	cmd.AddCommand(
		newUserAddCommand(opts),
		newUserListCommand(opts),
		newUserPasswdCommand(opts),
		newUserRoleCommand(opts),
		newUserDeleteCommand(opts),
	)
	return cmd
}

func newUserAddCommand(opts *rootOptions) *cobra.Command {
	var (
		password string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			user, err := svc.AddUser(cmd.Context(), args[0], password, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "initial password")
	cmd.Flags().StringVarP(&role, "role", "r", string(auth.RoleMember), "member, board or admin")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tROLE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Role, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func newUserPasswdCommand(opts *rootOptions) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd USERNAME",
		Short: "Set a new password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.SetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserRoleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "role USERNAME ROLE",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := auth.ParseRole(args[1])
			if err != nil {
				return err
			}
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.SetRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		},
	}
}

func newUserDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openCore(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
