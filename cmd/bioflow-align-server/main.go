// Command bioflow-align-server provides a REST API for pairwise alignment.
//
// Usage:
//
//	bioflow-align-server [flags]
//
// Flags:
//
//	--addr      Address to listen on (default: localhost:8080)
//	--config    YAML config file with align and server settings
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aria-lang/bioflow-align/api/handlers"
	"github.com/aria-lang/bioflow-align/api/middleware"
	"github.com/aria-lang/bioflow-align/internal/config"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newServerCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	v.SetEnvPrefix("bioflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfgFile string
	cmd := &cobra.Command{
		Use:           "bioflow-align-server",
		Short:         "Serve pairwise alignment over HTTP",
		Version:       bioflow.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return serve(c)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	cmd.Flags().String("addr", "localhost:8080", "address to listen on")
	cmd.Flags().BoolP("verbose", "v", false, "log rejected alignment inputs")
	v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	v.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
	return cmd
}

// newRouter wires the middleware stack and the API routes.
func newRouter(c config.Config, logger *log.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(c.Server.WriteTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var alignLogger *log.Logger
	if c.Verbose {
		alignLogger = logger
	}
	h := handlers.NewAlignmentHandler(c, alignLogger)
	r.Route("/api", h.Routes)

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	return r
}

func serve(c config.Config) error {
	logger := log.Default()

	server := &http.Server{
		Addr:         c.Server.Addr,
		Handler:      newRouter(c, logger),
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), c.Server.ShutdownTimeout)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Printf("Could not gracefully shutdown: %v", err)
		}
		close(done)
	}()

	logger.Printf("BioFlow alignment server starting on http://%s", c.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-done
	logger.Println("Server stopped")
	return nil
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>BioFlow Alignment API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>BioFlow Alignment API</h1>
    <p>Needleman-Wunsch and Smith-Waterman pairwise alignment.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/global</code>
        <p>Global alignment (Needleman-Wunsch).</p>
        <pre>{"sequence1": "GCATGCT", "sequence2": "GATTACA", "gap_open": -1}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Local alignment (Smith-Waterman), optionally with affine gaps.</p>
        <pre>{"sequence1": "HEAGAWGHEE", "sequence2": "PAWHEAE", "alphabet": "protein", "matrix": "blosum62", "affine": true}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/batch?mode=local</code>
        <p>Align a list of sequences, pairing sequentially or all against all.</p>
        <pre>{"sequences": ["ACGT", "ACGA", "TTGA"], "pairing": "all"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/matrix/validate</code>
        <p>Parse a similarity matrix and report its shape.</p>
        <pre>{"matrix": "  A  C\nA  1 -1\nC -1  1\n"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/validate</code>
        <p>Check that a sequence can be aligned, optionally against a matrix.</p>
        <pre>{"sequence": "ACGR", "matrix": "dna"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/stats</code>
        <p>Length statistics for a set of sequences.</p>
        <pre>{"sequences": ["ATGC", "ATGCATGN", "GGRC"]}</pre>
    </div>
</body>
</html>`
