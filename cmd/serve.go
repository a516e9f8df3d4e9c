package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/mockapi"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the in-memory mock API for local development",
	Long: `serve starts the built-in mock TaskSaaS API on localhost. Point the
client at it with TASKSAAS_API_URL=http://localhost:<port>. Nothing persists
across restarts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load(".env")
		logging.InitLogger("mockapi", filepath.Join(dataDir(), "logs"))

		port := servePort
		if env := os.Getenv("SERVER_PORT"); env != "" {
			port = env
		}

		srv := mockapi.NewServer()
		addr := ":" + port
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Mock API running on http://localhost%s", addr)
		fmt.Printf("Mock TaskSaaS API listening on http://localhost%s\n", addr)

		if err := http.ListenAndServe(addr, srv.Router()); err != nil {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "7048", "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
