package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/genogram/pkg/buildinfo"
	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/pipeline"
	"github.com/matzehuels/genogram/pkg/store"
)

// request is the body of layout and render requests.
type request struct {
	Family  json.RawMessage  `json:"family"`
	Options pipeline.Options `json:"options"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string    `json:"error"`
	Code    errs.Code `json:"code,omitempty"`
	Message string    `json:"message"`
}

// contentTypes maps output formats to their MIME types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	fam, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	res, err := s.runner.Layout(r.Context(), fam, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	fam, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.render(w, r, fam, opts)
}

func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	fam, err := readFamily(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	id, err := s.store.Put(r.Context(), r.URL.Query().Get("id"), fam)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/families/"+id)
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutFamily(w http.ResponseWriter, r *http.Request) {
	fam, err := readFamily(w, r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	id, err := s.store.Put(r.Context(), chi.URLParam(r, "id"), fam)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFamilyLayout renders a stored family. Query parameters: format
// (default json), direction, focus, detailed.
func (s *Server) handleFamilyLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts, err := queryOptions(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.render(w, r, rec.Family, opts)
}

// render writes the first requested format. Format comes from the query
// string, then the options, then defaults to svg.
func (s *Server) render(w http.ResponseWriter, r *http.Request, fam *family.Family, opts pipeline.Options) {
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	opts.SetDefaults()
	opts.Formats = opts.Formats[:1]
	res, err := s.runner.Execute(r.Context(), fam, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Genogram-Layers", strconv.Itoa(res.Layout.Layers))
	w.Header().Set("X-Genogram-Diagnostics", strconv.Itoa(len(res.Layout.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*family.Family, pipeline.Options, error) {
	var req request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, req.Options, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	if len(req.Family) == 0 {
		return nil, req.Options, errs.New(errs.ErrCodeInvalidInput, "family is required")
	}
	fam, err := family.ReadJSON(bytes.NewReader(req.Family))
	if err != nil {
		return nil, req.Options, errs.Wrap(errs.ErrCodeInvalidFamily, err, "decode family")
	}
	return fam, req.Options, nil
}

func readFamily(w http.ResponseWriter, r *http.Request) (*family.Family, error) {
	fam, err := family.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFamily, err, "decode family")
	}
	return fam, nil
}

func queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	} else {
		opts.Formats = []string{pipeline.FormatJSON}
	}
	if v := q.Get("direction"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidOptions, "direction: %v", err)
		}
		opts.Direction = &d
	}
	if v := q.Get("focus"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidOptions, "focus: %v", err)
		}
		opts.Focus = k
	}
	opts.Detailed = q.Get("detailed") == "true"
	return opts, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    errs.GetCode(err),
		Message: errs.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidPerson, errs.ErrCodeInvalidFamily,
		errs.ErrCodeInvalidOptions, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidFamilyID,
		errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFamilyNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
