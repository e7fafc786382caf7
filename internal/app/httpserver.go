package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/store"
)

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP serves /healthz and /metrics and shuts down with ctx.
func StartHTTP(ctx context.Context, addr string, appointments *store.Appointments) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok appointments=%d", appointments.Len())
	})

	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe() // closed via Shutdown below
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}
