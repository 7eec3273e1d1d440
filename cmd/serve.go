package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raise3/raise3/api"
	"github.com/raise3/raise3/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve campaigns, milestones and roles as a read-only JSON API",
	Long: `Serve the read pipeline over HTTP:

	GET /campaigns?offset=&limit=
	GET /campaigns/{index}/milestones
	GET /roles/{address}
	GET /investors/{address}/campaigns
	GET /metrics
	GET /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		if _, err := e.verifyDeployment(cmd.Context()); err != nil {
			appUI.Critical("%s", err)
			return err
		}

		srv := &http.Server{
			Addr:              config.ListenAddr,
			Handler:           api.NewServer(e.browser, e.roles, appLog).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		appUI.Success("Serving %s on %s (contract %s)", e.network.GetName(), config.ListenAddr, e.contract.Address)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		appLog.Info("shutting down", zap.String("addr", config.ListenAddr))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&config.ListenAddr, "listen", "L", ":8080", "address to listen on")
	serveCmd.Flags().IntVar(&config.Concurrency, "concurrency", 0, "number of campaigns read at once per request")
	rootCmd.AddCommand(serveCmd)
}
