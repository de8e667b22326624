package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/birdlog/birding-go/internal/conf"
	"github.com/birdlog/birding-go/internal/datastore"
	"github.com/birdlog/birding-go/internal/httpcontroller"
	"github.com/birdlog/birding-go/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command, which runs the HTTP server until
// interrupted.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  "Open the configured database and serve the field notebook over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().StringVar(&settings.Security.Host, "host", viper.GetString("security.host"), "Hostname the server is reachable at")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runServer(settings *conf.Settings) error {
	log := logging.ForService("serve")

	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled in settings")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close datastore", "error", err)
		}
	}()

	server := httpcontroller.New(settings, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
