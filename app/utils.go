package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/adiwicaksono/warta/internal/postservice"
)

type envelope map[string]any

func (e envelope) JSON() string {
	json, err := json.MarshalIndent(e, "", "\t")
	if err != nil {
		return ""
	}

	return string(json)
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

// writeResponse emits the standard success envelope: message, statusCode,
// data, plus the pagination meta and cache-origin flag when present.
func (app *application) writeResponse(w http.ResponseWriter, r *http.Request, status int, message string, data any, meta any, fromCache *bool) {
	env := envelope{
		"message":    message,
		"statusCode": status,
		"data":       data,
	}
	if meta != nil {
		env["meta"] = meta
	}
	if fromCache != nil {
		env["fromCache"] = *fromCache
	}

	if err := app.writeJSON(w, status, env, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)
			}
			return fmt.Errorf("request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("request body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("request body contains unknown field %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}
	return nil
}

func (app *application) readIDParam(r *http.Request, key string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName(key))
	if err != nil {
		return 0, errors.New("invalid ID parameter")
	}

	return id, nil
}

func (app *application) readPathParam(r *http.Request, key string) string {
	params := httprouter.ParamsFromContext(r.Context())
	return params.ByName(key)
}

func (app *application) readQueryInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", key)
	}

	return n, nil
}

// readListingParams collects the offset-mode listing parameters. Defaults and
// range checks belong to the service layer.
func (app *application) readListingParams(r *http.Request) (postservice.ListFilters, error) {
	qs := r.URL.Query()

	page, err := app.readQueryInt(r, "page")
	if err != nil {
		return postservice.ListFilters{}, err
	}

	pageSize, err := app.readQueryInt(r, "page_size")
	if err != nil {
		return postservice.ListFilters{}, err
	}

	return postservice.ListFilters{
		Search:        qs.Get("search"),
		Category:      qs.Get("category"),
		StartDate:     qs.Get("start_date"),
		EndDate:       qs.Get("end_date"),
		SortField:     postservice.SortField(qs.Get("order_by")),
		SortDirection: postservice.SortDirection(qs.Get("order")),
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// readCursorParams collects the keyset-mode listing parameters. last_data
// echoes the last_cursor value of the previous page.
func (app *application) readCursorParams(r *http.Request) (postservice.CursorFilters, error) {
	qs := r.URL.Query()

	pageSize, err := app.readQueryInt(r, "page_size")
	if err != nil {
		return postservice.CursorFilters{}, err
	}

	return postservice.CursorFilters{
		Search:        qs.Get("search"),
		Category:      qs.Get("category"),
		StartDate:     qs.Get("start_date"),
		EndDate:       qs.Get("end_date"),
		SortField:     postservice.SortField(qs.Get("order_by")),
		SortDirection: postservice.SortDirection(qs.Get("order")),
		PageSize:      pageSize,
		LastData:      qs.Get("last_data"),
	}, nil
}

func (app *application) extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
