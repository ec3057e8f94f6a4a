package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slidechat/internal/config"
	"slidechat/internal/gatewaysrv"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development generation gateway",
		Long: `serve runs a local generation gateway on the same routes the chat
client calls. Generation uses the configured OpenAI-compatible provider;
saved documents are written as JSON bundles next to the uploads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}
			srv, err := newGatewayServer(rt.cfg, rt.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gateway listening on %s (uploads: %s)\n", rt.cfg.Server.Addr, rt.cfg.Server.UploadDir)
			return serve(cmd.Context(), rt.cfg.Server.Addr, srv.Handler(), rt.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newGatewayServer(cfg config.Config, log *zap.Logger) (*gatewaysrv.Server, error) {
	gen, err := newGenerator(cfg, log.Named("generator"))
	if err != nil {
		return nil, err
	}
	var g gatewaysrv.Generator
	if gen != nil {
		g = gen
		log.Info("generator ready", zap.String("model", gen.Model()))
	} else {
		log.Warn("no API key configured, generate routes will fail")
	}
	return gatewaysrv.New(cfg.Server.UploadDir, g, log.Named("gatewaysrv")), nil
}

// serve 运行 HTTP 服务直到 ctx 取消
// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
