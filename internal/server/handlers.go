package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/transitroute/pkg/buildinfo"
	apperr "github.com/matzehuels/transitroute/pkg/errors"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/pipeline"
	"github.com/matzehuels/transitroute/pkg/render/nodelink"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Routes  int    `json:"routes"`
	Stops   int    `json:"stops"`
}

type routeResponse struct {
	ID       string `json:"id"`
	LongName string `json:"long_name"`
	Type     int    `json:"type"`
	Stops    int    `json:"stops"`
}

type routesResponse struct {
	Routes []routeResponse `json:"routes"`
	Count  int             `json:"count"`
}

type stopsResponse struct {
	network.Stats
	Stops []string `json:"stops"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Routes:  s.net.Index().Len(),
		Stops:   s.net.Catalog().Len(),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.net.Routes()
	resp := routesResponse{Routes: make([]routeResponse, 0, len(routes)), Count: len(routes)}
	for _, rt := range routes {
		resp.Routes = append(resp.Routes, routeResponse{
			ID:       rt.ID,
			LongName: rt.DisplayName(),
			Type:     rt.Type,
			Stops:    s.net.Index().StopsOf(rt.ID).Len(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stopsResponse{
		Stats: network.ComputeStats(s.net),
		Stops: s.net.Catalog().Names(),
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trip, err := pipeline.Resolve(r.Context(), s.resolver, q.Get("from"), q.Get("to"), s.queryOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.GraphOptions{
		Query:        s.queryOptions(r),
		Format:       q.Get("format"),
		HideIsolated: q.Get("hide_isolated") == "true",
	}

	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		trip, err := pipeline.Resolve(r.Context(), s.resolver, from, to, opts.Query)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Path = trip.Routes
	}

	out, err := pipeline.RenderGraph(r.Context(), s.resolver, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// queryOptions reads mode and closed stops from the request. closed may be
// repeated or comma-separated. A request naming neither gets the server
// defaults.
func (s *Server) queryOptions(r *http.Request) pipeline.QueryOptions {
	q := r.URL.Query()
	opts := pipeline.QueryOptions{Mode: q.Get("mode")}
	for _, v := range q["closed"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Closed = append(opts.Closed, name)
			}
		}
	}
	if opts.Mode == "" && len(opts.Closed) == 0 {
		return s.opts.Defaults
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err,
			"request_id", RequestIDFromContext(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: string(code), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case nodelink.FormatSVG:
		return "image/svg+xml"
	case nodelink.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
