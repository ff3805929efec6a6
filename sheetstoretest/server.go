package sheetstoretest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	sheetstore "github.com/ideamans/go-sheetstore"
)

// Request is one call received by a Server
type Request struct {
	Method string
	Path   string // Decoded URL path
	Query  map[string]string
	Header http.Header
	Body   []byte
}

// Server serves the subset of the Sheets v4 REST API used by sheetstore,
// backed by a MemoryAdapter.
type Server struct {
	*httptest.Server

	SpreadsheetID string
	Backend       *MemoryAdapter

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a server for spreadsheetID. Close it when done.
func NewServer(spreadsheetID string, backend *MemoryAdapter) *Server {
	s := &Server{SpreadsheetID: spreadsheetID, Backend: backend}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Requests returns the calls received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent call
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) record(r *http.Request, body []byte) {
	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
		Header: r.Header.Clone(),
		Body:   body,
	})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.record(r, body)
	ctx := r.Context()

	rest, ok := strings.CutPrefix(r.URL.Path, "/v4/spreadsheets/")
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	id, rng, isValues := strings.Cut(rest, "/values/")
	if !isValues {
		id = rest
	}
	id, isBatch := strings.CutSuffix(id, ":batchUpdate")
	if id != s.SpreadsheetID {
		writeError(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	switch {
	case isValues && r.Method == http.MethodGet:
		data, err := s.Backend.ReadRange(ctx, rng)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{
			"range":          data.Range,
			"majorDimension": "ROWS",
			"values":         data.Values,
		})

	case isValues && r.Method == http.MethodPost && strings.HasSuffix(rng, ":append"):
		values, ok := decodeSingleRow(w, body)
		if !ok {
			return
		}
		if err := s.Backend.AppendRow(ctx, strings.TrimSuffix(rng, ":append"), values); err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"spreadsheetId": id})

	case isValues && r.Method == http.MethodPut:
		values, ok := decodeSingleRow(w, body)
		if !ok {
			return
		}
		if err := s.Backend.UpdateRange(ctx, rng, values); err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"spreadsheetId": id, "updatedRange": rng})

	case isBatch && r.Method == http.MethodPost:
		var req struct {
			Requests []struct {
				DeleteDimension *struct {
					Range struct {
						SheetID    int64  `json:"sheetId"`
						Dimension  string `json:"dimension"`
						StartIndex int64  `json:"startIndex"`
						EndIndex   int64  `json:"endIndex"`
					} `json:"range"`
				} `json:"deleteDimension"`
			} `json:"requests"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON payload received.")
			return
		}
		for _, item := range req.Requests {
			if item.DeleteDimension == nil || item.DeleteDimension.Range.Dimension != "ROWS" {
				writeError(w, http.StatusBadRequest, "Unsupported request")
				return
			}
			dr := item.DeleteDimension.Range
			if err := s.Backend.DeleteRows(ctx, dr.SheetID, dr.StartIndex, dr.EndIndex); err != nil {
				writeBackendError(w, err)
				return
			}
		}
		writeJSON(w, map[string]interface{}{"spreadsheetId": id, "replies": []interface{}{map[string]interface{}{}}})

	case !isValues && r.Method == http.MethodGet:
		sheets, err := s.Backend.Sheets(ctx)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		list := make([]map[string]interface{}, len(sheets))
		for i, sh := range sheets {
			list[i] = map[string]interface{}{
				"properties": map[string]interface{}{"title": sh.Title, "sheetId": sh.SheetID},
			}
		}
		writeJSON(w, map[string]interface{}{"sheets": list})

	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

func decodeSingleRow(w http.ResponseWriter, body []byte) ([]interface{}, bool) {
	var vr struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.Unmarshal(body, &vr); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload received.")
		return nil, false
	}
	if len(vr.Values) != 1 {
		writeError(w, http.StatusBadRequest, "expected exactly one row")
		return nil, false
	}
	return vr.Values[0], true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeBackendError(w http.ResponseWriter, err error) {
	var remote *sheetstore.RemoteError
	if errors.As(err, &remote) && remote.StatusCode != 0 {
		writeError(w, remote.StatusCode, remote.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeError writes the Google API error envelope
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"status":  statusName(code),
		},
	})
}

func statusName(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "INVALID_ARGUMENT"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "PERMISSION_DENIED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusTooManyRequests:
		return "RESOURCE_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}
