package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yashdvishwakarma/tasksaas/cache"
	"github.com/yashdvishwakarma/tasksaas/client"
	"github.com/yashdvishwakarma/tasksaas/logging"
	"github.com/yashdvishwakarma/tasksaas/mutate"
	"github.com/yashdvishwakarma/tasksaas/session"
)

var (
	assumeYes    bool
	currentRoute = session.RouteRoot
)

var rootCmd = &cobra.Command{
	Use:   "taskcli",
	Short: "TaskSaaS command-line client",
	Long: `taskcli is the terminal client for TaskSaaS: login, manage your tasks,
and inspect the analytics the web dashboard renders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation prompt")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wired client core for one invocation.
type app struct {
	store   *session.Store
	api     *client.Client
	tasks   *cache.Collection
	mutator *mutate.Coordinator
	logout  *session.Coordinator
}

func dataDir() string {
	if dir := os.Getenv("TASKSAAS_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasksaas"
	}
	return filepath.Join(home, ".tasksaas")
}

func baseURL() string {
	if url := os.Getenv("TASKSAAS_API_URL"); url != "" {
		return url
	}
	return "https://tasksaas-api.onrender.com/api"
}

// newApp wires store, client, cache and coordinators together. The .env file
// is optional; environment variables win either way.
func newApp() (*app, error) {
	_ = godotenv.Load(".env")
	logging.InitLogger("taskcli", filepath.Join(dataDir(), "logs"))

	store, err := session.Open(filepath.Join(dataDir(), "session"))
	if err != nil {
		return nil, fmt.Errorf("could not open session store: %w", err)
	}

	a := &app{store: store}
	a.api = client.New(baseURL(), store,
		client.WithRouteProvider(func() string { return currentRoute }),
		client.WithUnauthorizedHandler(func(ctx context.Context, route string) {
			a.logout.Logout(ctx, route)
		}),
	)
	a.logout = session.NewCoordinator(store, a.api.Logout, cliRedirector{})
	a.tasks = cache.NewCollection(a.api)
	a.logout.AttachEphemeral(a.tasks)
	a.mutator = mutate.NewCoordinator(a.api, a.tasks, store, promptConfirmer{})

	// A token that is already expired would only bounce off the API as a 401;
	// tear the session down up front instead.
	a.logout.ExpireIfStale(context.Background(), time.Now(), currentRoute)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logging.Logger.Warnf("Event ID: SESSION_CLOSE_FAILED, Description: Could not close session store: %v", err)
	}
}

// cliRedirector is the terminal stand-in for the browser's hard redirect.
type cliRedirector struct{}

func (cliRedirector) Replace(route string) {
	fmt.Fprintf(os.Stderr, "Session ended. Run 'taskcli login' to sign in again.\n")
}

// promptConfirmer asks on stdin; --yes short-circuits it.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(prompt string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
