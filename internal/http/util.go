package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/service"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

var errInvalidBody = errors.New("invalid body")

// readBodyJSON decodes at most maxBytes of the body. An empty body leaves out untouched.
func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errInvalidBody
	}
	return nil
}

// locale picks the message language: session lang, then Accept-Language, then fr.
func locale(r *http.Request) string {
	if sess := SessionFrom(r.Context()); sess != nil && sess.Lang != "" {
		return sess.Lang
	}
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Accept-Language")), "en") {
		return "en"
	}
	return validation.DefaultLocale
}

func listRequest(r *http.Request) service.ListRequest {
	q := r.URL.Query()
	return service.ListRequest{
		EntrepriseID: entrepriseID(r),
		Search:       q.Get("search"),
		Page:         parseInt(q.Get("page"), 1),
		Size:         parseInt(q.Get("size"), 50),
	}
}

func entrepriseID(r *http.Request) string {
	if sess := SessionFrom(r.Context()); sess != nil {
		return sess.EntrepriseID
	}
	return ""
}

func pathVar(r *http.Request, name string) string { return mux.Vars(r)[name] }

func pathID(r *http.Request) string { return pathVar(r, "id") }

func optionalBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

func writeXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
