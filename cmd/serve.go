package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only intelligence API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/companies", func(w http.ResponseWriter, req *http.Request) {
			companies, err := st.ListCompanies(req.Context(), store.CompanyFilter{
				Industry: req.URL.Query().Get("industry"),
				Region:   req.URL.Query().Get("region"),
				Limit:    queryInt(req, "limit"),
			})
			respondList(w, companies, err)
		})

		r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
			filter := store.LeadFilter{Limit: queryInt(req, "limit")}
			if s := req.URL.Query().Get("status"); s != "" {
				status := model.LeadStatus(s)
				if !status.Valid() {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
					return
				}
				filter.Status = status
			}
			leads, err := st.ListLeads(req.Context(), filter)
			respondList(w, leads, err)
		})

		r.Get("/trends", func(w http.ResponseWriter, req *http.Request) {
			trends, err := st.ListTrends(req.Context(), store.TrendFilter{
				Industry: req.URL.Query().Get("industry"),
				Region:   req.URL.Query().Get("region"),
				Limit:    queryInt(req, "limit"),
			})
			respondList(w, trends, err)
		})

		r.Get("/analyses", func(w http.ResponseWriter, req *http.Request) {
			filter := store.AnalysisFilter{Limit: queryInt(req, "limit")}
			if t := req.URL.Query().Get("type"); t != "" {
				filter.Type = model.AnalysisType(t)
			}
			analyses, err := st.ListAnalyses(req.Context(), filter)
			respondList(w, analyses, err)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func respondList(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		zap.L().Error("list handler failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func queryInt(req *http.Request, key string) int {
	n, _ := strconv.Atoi(req.URL.Query().Get(key))
	return n
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
