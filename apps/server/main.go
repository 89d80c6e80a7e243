// Arcade AI opponent server: websocket gateway over the opponent engine,
// HTTP auth, and a pluggable performance/tournament store.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcade-ai/apps/server/internal/auth"
	"arcade-ai/apps/server/internal/gateway"
	"arcade-ai/apps/server/internal/store"
	"arcade-ai/engine"
)

func main() {
	log.Printf("[Server] Starting arcade AI server...")

	st, mode, err := store.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Store init failed: %v", err)
	}
	defer st.Close()
	log.Printf("[Server] Store mode: %s", mode)

	authService := auth.NewManager()
	defer authService.Close()

	eng, err := engine.New(engine.Config{})
	if err != nil {
		log.Fatalf("[Server] Engine init failed: %v", err)
	}
	eng.Start()
	defer eng.Stop()

	gw := gateway.New(eng, st, authService)
	defer gw.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	auth.NewHTTPHandler(authService).RegisterRoutes(mux)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("[Server] Listen failed: %v", err)
	case sig := <-sigCh:
		log.Printf("[Server] Received %s, shutting down", sig)
	}
}
