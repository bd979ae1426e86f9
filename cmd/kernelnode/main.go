package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capkernel/pkg/config"
	"capkernel/runtime"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// kernelnode is the off-chain runtime daemon: it watches ledger state over
// the configured WebSocket endpoint, republishes account changes on the
// event bus, drives flow orchestration, and writes a hash-chained audit
// trail of every decision it makes (C6-C11).
func main() {
	_ = godotenv.Load()

	env := os.Getenv("SYNN_ENV")
	cfg, err := config.Load(env)
	if err != nil {
		logrus.WithError(err).Fatal("kernelnode: failed to load configuration")
	}

	bus := runtime.NewEventBusWithCapacity(cfg.Runtime.BroadcastBuffer)
	defer bus.Close()

	auditLog, err := runtime.OpenAuditLog(runtime.AuditLogConfig{
		Dir:               cfg.Runtime.AuditDir,
		RetentionDays:     cfg.Runtime.AuditRetentionDays,
		MaxEntriesPerFile: cfg.Runtime.AuditMaxEntriesFile,
	})
	if err != nil {
		logrus.WithError(err).Fatal("kernelnode: failed to open audit log")
	}
	defer auditLog.Close()

	recorder := runtime.NewRecorder(auditLog, bus)
	orchestrator := runtime.NewOrchestrator(bus)

	rpcClient, err := rpc.DialContext(context.Background(), cfg.Runtime.RPCURL)
	if err != nil {
		logrus.WithError(err).Warn("kernelnode: RPC client unavailable, transaction building disabled")
	}
	var txBuilder *runtime.TransactionBuilder
	if rpcClient != nil {
		txBuilder = runtime.NewTransactionBuilder(rpcClient, cfg.Runtime.MaxRetries, cfg.Runtime.EnableSimulation, cfg.Runtime.StrictSimulation)
	}

	monitor := runtime.NewStateMonitor(cfg.Runtime.WSURL, bus)
	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)
	defer monitor.Stop()

	srv := newServer(bus, monitor, orchestrator, recorder, txBuilder)

	addr := os.Getenv("KERNELNODE_ADDR")
	if addr == "" {
		addr = ":8090"
	}
	httpServer := &http.Server{Addr: addr, Handler: srv}

	go func() {
		logrus.Infof("kernelnode listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("kernelnode: http server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Info("kernelnode: shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	_ = auditLog.PruneExpired()
}

type server struct {
	bus          *runtime.EventBus
	monitor      *runtime.StateMonitor
	orchestrator *runtime.Orchestrator
	recorder     *runtime.Recorder
	txBuilder    *runtime.TransactionBuilder
	mux          *chi.Mux
}

func newServer(bus *runtime.EventBus, monitor *runtime.StateMonitor, orch *runtime.Orchestrator, rec *runtime.Recorder, tb *runtime.TransactionBuilder) *server {
	s := &server{bus: bus, monitor: monitor, orchestrator: orch, recorder: rec, txBuilder: tb}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/subscribe/{account}", s.handleSubscribe)
	r.Delete("/subscribe/{account}", s.handleUnsubscribe)
	r.Get("/events", s.handleEvents)

	s.mux = r
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	s.monitor.SubscribeAccount(account)
	writeJSON(w, http.StatusAccepted, map[string]string{"account": account, "status": "subscribed"})
}

func (s *server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	s.monitor.UnsubscribeAccount(account)
	writeJSON(w, http.StatusOK, map[string]string{"account": account, "status": "unsubscribed"})
}

// handleEvents streams published events to the caller as newline-delimited
// JSON until the client disconnects or the stream lags.
func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sub := s.bus.Subscribe()
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if err := enc.Encode(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
