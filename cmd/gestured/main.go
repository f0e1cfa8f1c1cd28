// Command gestured serves gesture recognition over websockets. Each
// connection gets its own recognizer; see internal/wsbridge for the wire
// protocol.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/gesture"
	"github.com/phanxgames/gesture/internal/wsbridge"
)

type serverConfig struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:*,127.0.0.1:*"`
	GestureConfig  string `envconfig:"GESTURE_CONFIG"`
	Debug          bool   `envconfig:"DEBUG"`
}

func main() {
	var sc serverConfig
	if err := envconfig.Process("", &sc); err != nil {
		slog.Error("load server config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if sc.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := gesture.LoadConfig(sc.GestureConfig)
	if err != nil {
		slog.Error("load gesture config", "error", err)
		os.Exit(1)
	}

	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/gestures", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"gestures": gesture.DefaultConditions(cfg, slog.Default()).Names(),
			"config":   cfg,
		})
	}).Methods("GET")

	r.HandleFunc("/ws", wsbridge.Handler(wsbridge.Options{
		Config:         cfg,
		OriginPatterns: splitOrigins(sc.AllowedOrigins),
		Logger:         slog.Default(),
		Debug:          sc.Debug,
	}))

	addr := fmt.Sprintf(":%d", sc.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
