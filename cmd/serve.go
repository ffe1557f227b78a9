package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
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

	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/pipeline"
	"github.com/contourline/leadscore-cli/internal/store"
	"github.com/contourline/leadscore-cli/internal/table"
)

var servePort int

// maxUploadBytes bounds one scoring request's multipart payload.
const maxUploadBytes = 32 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner, st, err := initRunner(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(runner, st),
		}

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

func newRouter(runner *pipeline.Runner, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/score", handleScore(runner))

	r.Get("/api/v1/profiles", func(w http.ResponseWriter, req *http.Request) {
		profiles, err := st.ListProfiles(req.Context(), req.URL.Query().Get("category"), 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	})

	r.Get("/api/v1/profiles/{category}", func(w http.ResponseWriter, req *http.Request) {
		p, err := st.LatestProfile(req.Context(), chi.URLParam(req, "category"))
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	return r
}

// handleScore runs a synchronous scoring pass over multipart uploads. Files
// arrive under the "won" and "lost" field names.
func handleScore(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse multipart form"))
			return
		}

		won, err := uploadTables(req.MultipartForm.File["won"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		lost, err := uploadTables(req.MultipartForm.File["lost"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if len(lost) == 0 {
			writeError(w, http.StatusBadRequest, eris.New("at least one lost file is required"))
			return
		}

		in := pipeline.RunInput{
			Won:          won,
			Lost:         lost,
			Category:     req.FormValue("category"),
			ReuseProfile: req.FormValue("reuse_profile") == "true",
			SaveProfile:  req.FormValue("save_profile") == "true",
			KeepJunk:     req.FormValue("keep_junk") == "true",
		}

		res, err := runner.Run(req.Context(), in)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		if minStr := req.FormValue("min_score"); minStr != "" {
			min, err := strconv.Atoi(minStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse min_score"))
				return
			}
			res.Leads = filterByScore(res.Leads, min)
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func uploadTables(headers []*multipart.FileHeader) ([]*table.Table, error) {
	tables := make([]*table.Table, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "open upload %s", hdr.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "read upload %s", hdr.Filename)
		}

		t, err := table.ReadUpload(data, hdr.Filename)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func filterByScore(leads []*model.Lead, min int) []*model.Lead {
	out := make([]*model.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Score >= min {
			out = append(out, lead)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
