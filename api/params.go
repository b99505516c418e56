package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

const maxBodySize = 1 << 20

// pathID parses the named URL parameter as a UUID
func pathID(r *http.Request, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errs.NewBadRequestErrorWithField(fmt.Sprintf("Invalid %s ID format", entity), "id", "")
	}
	return id, nil
}

// pageParams reads page and page_size, defaulting to the first page of ten
func pageParams(r *http.Request) (page, pageSize int, err error) {
	page, pageSize = 1, services.DefaultPageSize
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, errs.NewBadRequestErrorWithField("Invalid page or page_size", "page", "")
		}
	}
	if v := q.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, errs.NewBadRequestErrorWithField("Invalid page or page_size", "page_size", "")
		}
	}
	return page, pageSize, nil
}

func boolParam(r *http.Request, name string, fallback bool) (bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.NewBadRequestErrorWithField(fmt.Sprintf("Invalid value for %s", name), name, "")
	}
	return b, nil
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxBodySize)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errs.NewBadRequestErrorWithField(fmt.Sprintf("Invalid type for %s", typeErr.Field), typeErr.Field, "")
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

type requiredField struct {
	name    string
	present bool
}

// requireFields rejects the request naming the first absent field
func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if !f.present {
			return errs.NewBadRequestErrorWithField("This field is required", f.name, "")
		}
	}
	return nil
}

// clientIP returns the first X-Forwarded-For hop when it parses as an IP, else
// the remote address host
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
