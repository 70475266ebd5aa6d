package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/python-discord/sir-robin-go/pkg/db"
	"github.com/python-discord/sir-robin-go/pkg/jamapi"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/endpoints"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/middleware"
	gormstore "github.com/python-discord/sir-robin-go/pkg/jamapi/store/gorm"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the code jam management API server",
	Long: `Run the code jam management API server.

Requires the environment variables DATABASE_URL and CODE_JAM_API_KEY.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, ok := os.LookupEnv("CODE_JAM_API_KEY")
		if !ok || apiKey == "" {
			fmt.Fprintln(os.Stderr, "CODE_JAM_API_KEY environment variable is required")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := jamapi.NewServer(
			gormstore.NewJamsStore(database),
			gormstore.NewTeamsStore(database),
			gormstore.NewUsersStore(database),
			gormstore.NewWinnersStore(database),
			gormstore.NewInfractionsStore(database),
			gormstore.NewHealthStore(database),
			middleware.NewJWTAuthenticator(apiKey),
			database,
			host,
			port,
		)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
