package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/harmonycheck/logger"
	"github.com/jsphweid/harmonycheck/midi"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/session"
	"github.com/jsphweid/harmonycheck/store"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// largest score accepted by /analyze
const maxUploadBytes = 10 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analyzer over HTTP",
	Long: `Serves POST /analyze (a midi file, or a JSON score when the
Content-Type is application/json), GET /reports/{id} and GET /health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		srv, err := NewServer(st, settingsFor("", true))
		if err != nil {
			return err
		}
		addr := ":" + cfg.Port
		logger.Info("Server starting", logger.Fields{"addr": addr, "store": cfg.StoreBackend})
		return http.ListenAndServe(addr, srv.Router(cfg.AllowOrigins))
	},
}

type Server struct {
	store    store.Store
	settings Settings
	opts     []session.Option
}

// NewServer serves analyses under settings. st may be nil, in which case
// nothing is cached or kept.
func NewServer(st store.Store, settings Settings) (*Server, error) {
	opts, err := settings.Options()
	if err != nil {
		return nil, err
	}
	return &Server{store: st, settings: settings, opts: opts}, nil
}

func (s *Server) Router(allowOrigins string) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(logRequests)
	router.HandleFunc("/analyze", s.HandleAnalyze).Methods("POST")
	router.HandleFunc("/reports/{id}", s.HandleReport).Methods("GET")
	router.HandleFunc("/health", s.HandleHealth).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: strings.Split(allowOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "score too large")
		return
	}

	contentType := r.Header.Get("Content-Type")
	id := s.settings.ReportID(data, contentType)
	if s.store != nil {
		stored, ok, err := s.store.Get(id)
		if err != nil {
			logger.Error("Could not read report store", err, logger.Fields{"report_id": id})
		} else if ok {
			writeJSON(w, http.StatusOK, model.AnalyzeResponse{ID: id, Findings: stored.Findings, Report: stored.Report})
			return
		}
	}

	score, err := midi.Parse(data, contentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := session.New(score, s.opts...)
	findings, err := sess.Analyze(r.Context())
	switch {
	case errors.Is(err, session.ErrInvalidScore):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := model.AnalyzeResponse{ID: id, Findings: findings, Report: sess.Report()}
	if resp.Findings == nil {
		resp.Findings = []model.Finding{}
	}
	if s.store != nil {
		stored := model.StoredReport{ID: id, Source: score.Title, Report: resp.Report, Findings: resp.Findings}
		if err := s.store.Put(id, stored); err != nil {
			logger.Error("Could not store report", err, logger.Fields{"report_id": id, "session_id": sess.ID})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "report storage is disabled")
		return
	}
	id := mux.Vars(r)["id"]
	stored, ok, err := s.store.Get(id)
	if err != nil {
		logger.Error("Could not read report store", err, logger.Fields{"report_id": id})
		writeError(w, http.StatusInternalServerError, "could not read report")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Could not write response", logger.Fields{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.LogRequest(r, time.Since(start), rec.status, nil)
	})
}
