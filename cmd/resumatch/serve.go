package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumatch/internal/extract"
	"resumatch/internal/server"
	"resumatch/internal/service"
	"resumatch/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		explainer, err := buildExplainer(cmd, a.cfg)
		if err != nil {
			return err
		}
		analyzer := service.NewAnalyzer(extract.Text, a.vec, explainer, a.log)

		chunkStore, err := buildChunkStore(a.cfg)
		if err != nil {
			return err
		}
		searcher := service.NewSearcher(a.vec, a.enc, chunkStore, a.log)

		docs, err := store.Open(a.cfg.Storage.DocumentsPath, a.log)
		if err != nil {
			return err
		}

		srv, err := server.New(analyzer, searcher, docs, a.log, &server.Config{
			Host: a.cfg.Server.Host,
			Port: a.cfg.Server.Port,
		})
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			a.log.Info("shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
