package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/apresai/studynotes/internal/store"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "studynotes",
	Short: "Study-notes service: upload materials, extract text, summarize with a hosted model",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studynotes %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(usersCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newStore builds a DynamoDB-backed store for the admin commands.
func newStore(ctx context.Context) (*store.Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(envOr("AWS_REGION", "us-east-1")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	table := envOr("DYNAMODB_TABLE", "apresai-studynotes-prod")
	return store.New(dynamodb.NewFromConfig(awsCfg), table), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
