package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"script-split/internal/app"
	"script-split/internal/config"
	"script-split/internal/document"
	"script-split/internal/export"
	"script-split/internal/httputil"
	"script-split/internal/splitter"
)

// requestGrace covers reading the body, the algorithmic fallback and writing
// the response after the delegate budget is spent.
const requestGrace = 15 * time.Second

type splitRequest struct {
	Text       string `json:"text"`
	Limit      int    `json:"limit" validate:"required,min=1"`
	SmartSplit bool   `json:"smart_split"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, nil)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	deps.Log.Info("gateway listening", "addr", srv.Addr, "smart_split", deps.Splitter.SmartSplitAvailable())
	if err := httputil.Serve(ctx, deps.Log, srv); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log, deps.Config.CORSAllowedOrigins, requestTimeout(deps.Config))

	r.Post("/api/split", splitHandler(deps))
	r.Post("/api/split/upload", uploadHandler(deps))
	r.Get("/api/config", configHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	return r
}

// requestTimeout outlasts the whole smart split budget so the fallback
// response is written before the router gives up on the request.
func requestTimeout(cfg config.Config) time.Duration {
	return cfg.SmartSplitTimeout + requestGrace
}

func splitHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := outputFormat(r)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, deps.Config.MaxUploadSize)
		var req splitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.As(err, new(*http.MaxBytesError)) {
				httputil.Fail(deps.Log, w, fmt.Sprintf("request too large (max %d bytes)", deps.Config.MaxUploadSize), err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if req.Limit > deps.Config.MaxLimit {
			httputil.Fail(deps.Log, w, fmt.Sprintf("limit must be at most %d", deps.Config.MaxLimit), nil, http.StatusBadRequest)
			return
		}

		res, err := deps.Splitter.Split(r.Context(), req.Text, splitter.Options{Limit: req.Limit, SmartSplit: req.SmartSplit})
		if err != nil {
			httputil.Fail(deps.Log, w, "split failed", err, http.StatusBadRequest)
			return
		}
		writeResult(deps, w, format, res)
	}
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		format, err := outputFormat(r)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		opts, err := formOptions(r, deps.Config.DefaultLimit)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		if opts.Limit > deps.Config.MaxLimit {
			httputil.Fail(deps.Log, w, fmt.Sprintf("limit must be at most %d", deps.Config.MaxLimit), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text, err := document.Extract(header.Filename, content)
		if errors.Is(err, document.ErrUnsupportedType) {
			httputil.Fail(deps.Log, w, document.ErrUnsupportedType.Error(), err, http.StatusUnsupportedMediaType)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusUnprocessableEntity)
			return
		}

		res, err := deps.Splitter.Split(r.Context(), text, opts)
		if err != nil {
			httputil.Fail(deps.Log, w, "split failed", err, http.StatusBadRequest)
			return
		}
		deps.Log.Info("split upload", "filename", header.Filename, "chunks", len(res.Chunks), "strategy", res.Strategy)
		writeResult(deps, w, format, res)
	}
}

func configHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"default_limit":         deps.Config.DefaultLimit,
			"max_limit":             deps.Config.MaxLimit,
			"smart_split_available": deps.Splitter.SmartSplitAvailable(),
		})
	}
}

// outputFormat reads ?format=, defaulting to the JSON result document.
func outputFormat(r *http.Request) (export.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return export.FormatJSON, nil
	}
	return export.ParseFormat(raw)
}

// formOptions reads limit and smart_split from a multipart form. A missing
// limit falls back to defaultLimit.
func formOptions(r *http.Request, defaultLimit int) (splitter.Options, error) {
	opts := splitter.Options{Limit: defaultLimit}
	if v := r.FormValue("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return opts, fmt.Errorf("limit must be a positive integer, got %q", v)
		}
		opts.Limit = limit
	}
	if v := r.FormValue("smart_split"); v != "" {
		smart, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("smart_split must be a boolean, got %q", v)
		}
		opts.SmartSplit = smart
	}
	return opts, nil
}

func writeResult(deps app.Deps, w http.ResponseWriter, format export.Format, res splitter.Result) {
	if format == export.FormatJSON {
		httputil.WriteJSON(w, http.StatusOK, res)
		return
	}
	var v any = res
	if format == export.FormatText {
		v = res.Chunks
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, v); err != nil {
		deps.Log.Error("failed to write export", "format", format, "err", err)
	}
}
