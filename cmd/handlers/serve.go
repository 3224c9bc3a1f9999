package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/logger"
	"stash/internal/server"
)

// NewServeCmd creates the serve command for the local web view
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local read-only web view",
		Long: `Serve the stash as a small web site on localhost: a listing page,
article pages with the saved content, and a JSON API.

Examples:
  stash serve
  stash serve --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config)")

	return cmd
}

func runServe(host string, port int) error {
	serveCfg := config.GetServe()
	if host != "" {
		serveCfg.Host = host
	}
	if port != 0 {
		serveCfg.Port = port
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	srv := server.New(s, server.Options{Host: serveCfg.Host, Port: serveCfg.Port})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("Serving stash on http://%s\n", srv.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", err)
		return err
	}

	return nil
}
