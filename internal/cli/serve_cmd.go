package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.NewServer == nil {
				return fmt.Errorf("HTTP server is not configured")
			}
			if port == "" {
				port = app.Port
			}

			server := app.NewServer()

			// Shut down cleanly on SIGINT/SIGTERM.
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				_ = server.Shutdown()
			}()

			fmt.Printf("Listening on :%s\n", port)
			return server.Listen(":" + port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (defaults to the PORT env var)")

	return cmd
}
