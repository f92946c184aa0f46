package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/extrack/internal/domain/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// fields holds the scalar body fields of a request regardless of encoding.
type fields map[string]string

// readFields decodes a JSON object or an urlencoded/multipart form body.
// JSON numbers and booleans are kept in their textual form so both
// encodings validate identically.
func readFields(w http.ResponseWriter, r *http.Request) (fields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return readJSONFields(r)
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, fmt.Errorf("malformed form body: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("malformed form body: %w", err)
	}
	out := fields{}
	for k, v := range r.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func readJSONFields(r *http.Request) (fields, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed JSON body: %w", err)
	}

	out := fields{}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			return nil, fieldError(k, "must be a string or a number")
		}
	}
	return out, nil
}

// createUserRequest is the body of POST /api/users.
type createUserRequest struct {
	Username string
}

func newCreateUserRequest(f fields) createUserRequest {
	return createUserRequest{Username: strings.TrimSpace(f["username"])}
}

func (c createUserRequest) validate() error {
	if c.Username == "" {
		return fieldError("username", "is required")
	}
	return nil
}

// exerciseRequest is the body of POST /api/users/{id}/exercises.
type exerciseRequest struct {
	Description string
	Duration    string
	Date        string
}

func newExerciseRequest(f fields) exerciseRequest {
	return exerciseRequest{
		Description: strings.TrimSpace(f["description"]),
		Duration:    strings.TrimSpace(f["duration"]),
		Date:        strings.TrimSpace(f["date"]),
	}
}

// parse validates the request and converts it to a model.ExerciseInput.
// Duration must be a positive whole number of minutes; an empty date means
// today.
func (e exerciseRequest) parse() (model.ExerciseInput, error) {
	var in model.ExerciseInput

	if e.Description == "" {
		return in, fieldError("description", "is required")
	}
	in.Description = e.Description

	if e.Duration == "" {
		return in, fieldError("duration", "is required")
	}
	d, err := strconv.Atoi(e.Duration)
	if err != nil {
		return in, fieldError("duration", "must be a whole number of minutes")
	}
	if d < 1 {
		return in, fieldError("duration", "must be at least 1 minute")
	}
	in.Duration = d

	if e.Date != "" {
		date, err := model.ParseDate(e.Date)
		if err != nil {
			return in, fieldError("date", "must be a date in YYYY-MM-DD form")
		}
		in.Date = &date
	}
	return in, nil
}

// logQuery is the query string of GET /api/users/{id}/logs.
type logQuery struct {
	From  string
	To    string
	Limit string
}

func newLogQuery(r *http.Request) logQuery {
	q := r.URL.Query()
	return logQuery{
		From:  strings.TrimSpace(q.Get("from")),
		To:    strings.TrimSpace(q.Get("to")),
		Limit: strings.TrimSpace(q.Get("limit")),
	}
}

// parse converts the query to a model.LogFilter. A non-numeric limit is
// ignored; a negative one is rejected.
func (q logQuery) parse() (model.LogFilter, error) {
	var f model.LogFilter

	if q.From != "" {
		from, err := model.ParseDate(q.From)
		if err != nil {
			return f, fieldError("from", "must be a date in YYYY-MM-DD form")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := model.ParseDate(q.To)
		if err != nil {
			return f, fieldError("to", "must be a date in YYYY-MM-DD form")
		}
		f.To = &to
	}
	if q.Limit != "" {
		if n, err := strconv.Atoi(q.Limit); err == nil {
			if n < 0 {
				return f, fieldError("limit", "must not be negative")
			}
			f.Limit = n
		}
	}
	return f, nil
}
