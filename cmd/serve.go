package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/meeting-agent/internal/model"
	"github.com/sells-group/meeting-agent/internal/pipeline"
	"github.com/sells-group/meeting-agent/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for transcript analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p := buildPipeline()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /v1/meetings", func(w http.ResponseWriter, r *http.Request) {
			handleAnalyze(w, r, st, p)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
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

// analyzeRequest is the POST /v1/meetings body. People uses the same shape as
// the on-disk directory file.
type analyzeRequest struct {
	Transcript    string          `json:"transcript"`
	People        json.RawMessage `json:"people"`
	ReferenceDate string          `json:"reference_date"`
}

// handleAnalyze runs one transcript synchronously and returns the full
// structured output.
func handleAnalyze(w http.ResponseWriter, r *http.Request, st store.Store, p *pipeline.Pipeline) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Transcript == "" {
		httpError(w, http.StatusBadRequest, "transcript is required")
		return
	}
	if len(req.People) == 0 {
		httpError(w, http.StatusBadRequest, "people directory is required")
		return
	}

	directory, err := model.ParseDirectory(req.People)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid people directory")
		return
	}

	refDate, err := resolveReferenceDate(req.ReferenceDate)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid reference date")
		return
	}

	state := model.NewProcessingState(req.Transcript, directory, refDate)

	out, err := executeRun(r.Context(), st, p, "http", state)
	if err != nil {
		zap.L().Error("analysis request failed", zap.Error(err))
		httpError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
