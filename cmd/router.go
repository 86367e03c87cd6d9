package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kisanportal/mandi-cli/internal/geospatial"
	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/search"
	"github.com/kisanportal/mandi-cli/pkg/datagov"
)

// sessionHeader carries the client's search session between requests.
const sessionHeader = "X-Session-ID"

type sessionKey struct{}

// newRouter builds the HTTP API.
func newRouter(env *appEnv, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", sessionHeader},
		ExposedHeaders: []string{sessionHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/mandi-prices", handleMandiPrices(env))
		r.Get("/prices", handlePrices(env))
		r.With(withSession).Get("/nearest", handleNearest(env))
		r.Get("/directions", handleDirections(env))
	})

	return r
}

// requestLogger emits one log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// withSession reads the session header, minting one when absent, and echoes it.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(sessionHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(sessionHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, envelope{Success: false, Error: err.Error()})
}

// handleMandiPrices proxies the upstream feed unchanged.
func handleMandiPrices(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := env.Prices.Prices(r.Context(), datagov.Query{
			State:  q.Get("state"),
			Limit:  intParam(q.Get("limit"), datagov.DefaultLimit),
			Offset: intParam(q.Get("offset"), datagov.DefaultOffset),
		})
		if err != nil {
			zap.L().Error("mandi api error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool              `json:"success"`
			Data    []model.RawRecord `json:"data"`
			Total   int               `json:"total"`
		}{true, resp.Records, resp.Total})
	}
}

// handlePrices serves the normalized browse view.
func handlePrices(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res, err := env.Search.Browse(r.Context(), q.Get("state"), q.Get("crop"))
		if err != nil {
			zap.L().Error("browse prices failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
			*search.BrowseResult
		}{true, res})
	}
}

// handleNearest runs a nearest-market search.
func handleNearest(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := search.Query{
			State:        q.Get("state"),
			Location:     q.Get("location"),
			Device:       deviceParam(q.Get("lat"), q.Get("lng")),
			DeviceDenied: q.Get("denied") == "1",
			Limit:        intParam(q.Get("limit"), 0),
			SessionID:    sessionFrom(r.Context()),
		}

		res, err := env.Search.Nearest(r.Context(), query)
		if err != nil {
			writeError(w, nearestStatus(err), err)
			return
		}

		if q.Get("format") == "geojson" {
			b, err := geospatial.MarketsGeoJSON(res.Records())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			w.Header().Set("Content-Type", "application/geo+json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
			*search.Result
		}{true, res})
	}
}

func nearestStatus(err error) int {
	switch {
	case search.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, search.ErrLocationUnresolved):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleDirections returns, or redirects to, a Google Maps link.
func handleDirections(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		destLat, latErr := strconv.ParseFloat(q.Get("dest_lat"), 64)
		destLng, lngErr := strconv.ParseFloat(q.Get("dest_lng"), 64)
		address := strings.TrimSpace(q.Get("address"))
		if (latErr != nil || lngErr != nil) && address == "" {
			writeError(w, http.StatusBadRequest, errors.New("dest_lat and dest_lng or address are required"))
			return
		}
		if latErr != nil || lngErr != nil {
			destLat, destLng = math.NaN(), math.NaN()
		}

		var userLat, userLng *float64
		if d := deviceParam(q.Get("lat"), q.Get("lng")); d != nil {
			userLat, userLng = &d.Lat, &d.Lng
		}

		link := env.Links.Link(destLat, destLng, userLat, userLng, address)
		if q.Get("redirect") == "1" {
			http.Redirect(w, r, link, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": link})
	}
}

// intParam parses a non-negative integer, returning def when s is empty or bad.
func intParam(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// deviceParam returns nil when neither coordinate was sent. A malformed pair
// yields an invalid coordinate so the search reports the device as unavailable.
func deviceParam(lat, lng string) *model.Coordinate {
	if strings.TrimSpace(lat) == "" && strings.TrimSpace(lng) == "" {
		return nil
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	ln, err2 := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err1 != nil || err2 != nil {
		return &model.Coordinate{}
	}
	return &model.Coordinate{Lat: la, Lng: ln}
}
