package main

import (
	"log"

	"github.com/spf13/cobra"

	// Swagger imports
	_ "connect3/backend/docs" // This is important for swag to find the generated docs
)

var rootCmd = &cobra.Command{
	Use:   "connect3",
	Short: "Connect3 social graph API server",
	Long: `Connect3 stores users, their mutual connections and their posts,
and serves each user a feed of the posts within reach of their social graph.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the graph store schema and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// @title           Connect3 API
// @version         1.0
// @description     Social graph service: users, mutual connections and degree-scoped post feeds.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("connect3: %v", err)
	}
}
