package cli

import (
	"fmt"

	"github.com/apresai/studynotes/internal/store"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var (
	flagUserEmail    string
	flagUserUsername string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with pending status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagUserEmail == "" {
			return fmt.Errorf("--email is required")
		}
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		userID, err := store.NewID()
		if err != nil {
			return err
		}
		if err := st.CreateUser(cmd.Context(), userID, flagUserEmail, flagUserUsername); err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s), status pending\n", userID, flagUserEmail)
		return nil
	},
}

var usersApproveCmd = &cobra.Command{
	Use:   "approve <user-id>",
	Short: "Activate a pending user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := st.ApproveUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Approved user %s\n", args[0])
		return nil
	},
}

var usersSuspendCmd = &cobra.Command{
	Use:   "suspend <user-id>",
	Short: "Suspend a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := st.SuspendUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Suspended user %s\n", args[0])
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		users, err := st.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s  %-10s  %-8s  %s\n", u.UserID, u.Status, u.Role, u.Email)
		}
		return nil
	},
}

func init() {
	usersCreateCmd.Flags().StringVar(&flagUserEmail, "email", "", "User email")
	usersCreateCmd.Flags().StringVar(&flagUserUsername, "username", "", "Initial username")

	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersApproveCmd)
	usersCmd.AddCommand(usersSuspendCmd)
	usersCmd.AddCommand(usersListCmd)
}
