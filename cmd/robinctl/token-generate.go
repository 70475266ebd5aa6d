package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/middleware"
)

// tokenGenerateCmd represents the token generate command
var tokenGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a bearer token for the management API",
	Long: `Generate a bearer token for the management API.

The token is signed with the CODE_JAM_API_KEY shared secret and printed
to standard output.

Example:
  robinctl token generate
  robinctl token generate --subject grafana --ttl 720h`,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, ok := os.LookupEnv("CODE_JAM_API_KEY")
		if !ok || apiKey == "" {
			fmt.Fprintln(os.Stderr, "CODE_JAM_API_KEY environment variable is required")
			os.Exit(1)
		}

		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := middleware.GenerateToken(apiKey, subject, ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	tokenCmd.AddCommand(tokenGenerateCmd)
	tokenGenerateCmd.Flags().StringP("subject", "s", "robinctl", "Token subject")
	tokenGenerateCmd.Flags().DurationP("ttl", "t", time.Hour, "Token time to live")
}
