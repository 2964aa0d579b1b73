package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/tqdev/spritepack/pkg/config"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string
	addr       string // listen address
	dir        string // directory holding sprite.png and sprite.css
}

// serveCommand creates the serve command for previewing generated output.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated sprite sheet in a browser",
		Long: `Preview the generated sprite sheet in a browser.

The serve command starts a local HTTP server over the output directory.
The index page renders one element per sprite class so the atlas and the
stylesheet offsets can be inspected visually.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.dir == "" {
				opts.dir = cfg.OutputDir
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default spritepack.toml)")
	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8473", "listen address")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory holding sprite.png and sprite.css")

	return cmd
}

// runServe starts the preview server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if _, err := os.Stat(filepath.Join(opts.dir, stylesheetFileName)); err != nil {
		return fmt.Errorf("no %s in %s, run 'spritepack pack' first", stylesheetFileName, opts.dir)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           c.previewRouter(opts.dir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printInfo("Serving sprite preview")
	printDetail("Directory: %s", opts.dir)
	fmt.Println("  " + StyleLink.Render("http://"+opts.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// previewRouter builds the chi router serving the atlas, the stylesheet, and
// the demo index page.
func (c *CLI) previewRouter(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		css, err := os.ReadFile(filepath.Join(dir, stylesheetFileName))
		if err != nil {
			http.Error(w, "stylesheet not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTemplate.Execute(w, indexData{Classes: classNames(css)})
	})
	r.Get("/"+atlasFileName, func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(dir, atlasFileName))
	})
	r.Get("/"+stylesheetFileName, func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(dir, stylesheetFileName))
	})

	return r
}

// requestLogger logs each request through the CLI logger.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		c.Logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// classRule matches the selector line of each generated rule.
var classRule = regexp.MustCompile(`(?m)^\.([A-Za-z_][A-Za-z0-9_-]*) \{`)

// classNames extracts the sprite class names from the generated stylesheet.
func classNames(css []byte) []string {
	matches := classRule.FindAllSubmatch(css, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, string(m[1]))
	}
	return names
}

type indexData struct {
	Classes []string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>spritepack preview</title>
<link rel="stylesheet" href="/sprite.css">
<style>
body { font-family: sans-serif; background: #1e1e1e; color: #ddd; margin: 2rem; }
.cell { display: inline-block; margin: 8px; text-align: center; vertical-align: top; }
.cell .sprite { background-image: url(/sprite.png); background-repeat: no-repeat; margin: 0 auto; }
.cell .label { font-size: 11px; color: #888; margin-top: 4px; word-break: break-all; max-width: 96px; }
</style>
</head>
<body>
<h1>Sprites ({{len .Classes}})</h1>
{{range .Classes}}<div class="cell"><div class="sprite {{.}}"></div><div class="label">{{.}}</div></div>
{{end}}</body>
</html>
`))
