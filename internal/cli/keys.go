package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
}

var (
	flagKeyUser string
	flagKeyName string
)

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key for a user (plaintext is shown once)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagKeyUser == "" {
			return fmt.Errorf("--user is required")
		}
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		plaintext, prefix, err := st.CreateAPIKey(cmd.Context(), flagKeyUser, flagKeyName)
		if err != nil {
			return err
		}
		fmt.Printf("Created key %s for user %s\n", prefix, flagKeyUser)
		fmt.Printf("API key (save it now, it is not stored): %s\n", plaintext)
		return nil
	},
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <prefix>",
	Short: "Revoke an API key by its prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		if err := st.RevokeAPIKey(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Revoked key %s\n", args[0])
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagKeyUser == "" {
			return fmt.Errorf("--user is required")
		}
		st, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		keys, err := st.ListAPIKeys(cmd.Context(), flagKeyUser)
		if err != nil {
			return err
		}
		for _, k := range keys {
			prefix := k.PK[len("APIKEY#"):]
			fmt.Printf("%s  %-10s  %-20s  created %s  last used %s\n",
				prefix, k.Status, k.Name, k.CreatedAt, k.LastUsedAt)
		}
		return nil
	},
}

func init() {
	keysCreateCmd.Flags().StringVar(&flagKeyUser, "user", "", "User ID the key belongs to")
	keysCreateCmd.Flags().StringVar(&flagKeyName, "name", "default", "Display name for the key")
	keysListCmd.Flags().StringVar(&flagKeyUser, "user", "", "User ID to list keys for")

	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysRevokeCmd)
	keysCmd.AddCommand(keysListCmd)
}
