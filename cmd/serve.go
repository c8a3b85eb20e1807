package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pruneInterval   = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

var watchContent bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `serve compiles the content, connects to the database, runs migrations
and starts the HTTP server on PORT. With --watch, edits under the content
directory reload the blog without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := newApp(appConfig, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx, watchContent)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&watchContent, "watch", false, "reload content when files change")
}

func (a *app) serve(ctx context.Context, watch bool) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", a.cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		a.pruneCaches(ctx, pruneInterval)
		return nil
	})

	if watch {
		g.Go(func() error {
			return a.store.Watch(ctx, a.log.Named("content"))
		})
	}

	return g.Wait()
}

// pruneCaches drops expired entries until ctx is done.
func (a *app) pruneCaches(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range a.caches {
				if n := c.Prune(); n > 0 {
					a.log.Debug("cache pruned", zap.Int("entries", n))
				}
			}
		}
	}
}
