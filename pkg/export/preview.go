package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// Preview port range tried when no port is given
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewServer serves an exported site bundle locally
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
}

// NewPreviewServer creates a preview server for the bundle at bundlePath
func NewPreviewServer(bundlePath string, port int) *PreviewServer {
	return &PreviewServer{bundlePath: bundlePath, port: port}
}

// Port returns the port the server listens on
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the address to open in a browser
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// Validate checks that the bundle exists and has an index.html
func (p *PreviewServer) Validate() error {
	if _, err := os.Stat(p.bundlePath); os.IsNotExist(err) {
		return fmt.Errorf("bundle path does not exist: %s", p.bundlePath)
	}
	if _, err := os.Stat(filepath.Join(p.bundlePath, "index.html")); os.IsNotExist(err) {
		return fmt.Errorf("no index.html found in bundle: %s", p.bundlePath)
	}
	return nil
}

// Handler serves the bundle with no-cache headers plus a status endpoint
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(p.bundlePath))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (p *PreviewServer) Run(ctx context.Context) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", p.port),
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

type previewStatus struct {
	Status     string `json:"status"`
	Port       int    `json:"port"`
	BundlePath string `json:"bundle_path"`
	HasIndex   bool   `json:"has_index"`
	FileCount  int    `json:"file_count"`
}

func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	st := previewStatus{Status: "running", Port: p.port, BundlePath: p.bundlePath, HasIndex: true}
	if _, err := os.Stat(filepath.Join(p.bundlePath, "index.html")); os.IsNotExist(err) {
		st.HasIndex = false
	}
	filepath.Walk(p.bundlePath, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			st.FileCount++
		}
		return nil
	})
	if err := json.NewEncoder(w).Encode(st); err != nil {
		log.Printf("preview status: %v", err)
	}
}

// noCacheMiddleware keeps browsers from holding on to stale exports
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort returns the first free TCP port in [start, end]
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// OpenInBrowser opens url with the platform's default handler
func OpenInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// PreviewConfig configures StartPreview
type PreviewConfig struct {
	BundlePath  string
	Port        int // 0 picks a free port
	OpenBrowser bool
}

// StartPreview serves the bundle until ctx is cancelled, opening a browser
// once the server is up when asked to
func StartPreview(ctx context.Context, cfg PreviewConfig) error {
	port := cfg.Port
	if port == 0 {
		var err error
		port, err = FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
		if err != nil {
			return fmt.Errorf("could not find available port: %w", err)
		}
	}
	server := NewPreviewServer(cfg.BundlePath, port)
	if err := server.Validate(); err != nil {
		return err
	}

	if cfg.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := OpenInBrowser(server.URL()); err != nil {
				fmt.Printf("Could not open browser: %v\nOpen %s in your browser\n", err, server.URL())
			}
		}()
	}
	fmt.Printf("\nPreview server running at %s\nServing: %s\n\nPress Ctrl+C to stop\n", server.URL(), cfg.BundlePath)
	return server.Run(ctx)
}
