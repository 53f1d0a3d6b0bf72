package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// serveCommand creates the serve command: preview a rendered report
// directory over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: "Serve a rendered report directory over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if _, err := os.Stat(dir); err != nil {
				return err
			}

			r := chi.NewRouter()
			r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: chiLogger{c.Logger}}))
			r.Handle("/*", http.FileServer(http.Dir(dir)))

			srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

			printInfo("Serving %s on http://%s", dir, addr)
			printDetail("Press Ctrl+C to stop")

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return cmd.Context().Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8140", "listen address")

	return cmd
}

// chiLogger adapts the CLI logger to chi's request log interface.
type chiLogger struct {
	logger interface{ Infof(string, ...any) }
}

func (l chiLogger) Print(v ...any) {
	if len(v) == 1 {
		l.logger.Infof("%v", v[0])
		return
	}
	l.logger.Infof("%v", v)
}
