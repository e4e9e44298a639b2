package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/phonebook/db"
	"github.com/satheeshds/phonebook/models"
)

var fixedNow = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

func newServer(t *testing.T, store Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Options{
		Store:   store,
		Static:  fstest.MapFS{"index.html": {Data: []byte("<html>phonebook</html>")}},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: metrics.NewSet(),
		Now:     func() time.Time { return fixedNow },
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

type personBody struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

func listPersons(t *testing.T, srv *httptest.Server) []personBody {
	t.Helper()
	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var persons []personBody
	require.NoError(t, json.Unmarshal([]byte(body), &persons))
	return persons
}

func createPerson(t *testing.T, srv *httptest.Server, name, number string) personBody {
	t.Helper()
	in, err := json.Marshal(models.PersonInput{Name: name, Number: number})
	require.NoError(t, err)
	resp, body := do(t, http.MethodPost, srv.URL+"/api/persons", string(in))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var p personBody
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestListEmpty(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `[]`, body)
}

func TestCreateThenList(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	created := createPerson(t, srv, "Ada Lovelace", "39-44-5323523")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada Lovelace", created.Name)

	persons := listPersons(t, srv)
	require.Len(t, persons, 1)
	assert.Equal(t, created, persons[0])
	assert.Equal(t, "39-44-5323523", persons[0].Number)
}

func TestCreateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "short number", body: `{"name":"Ada Lovelace","number":"123456"}`, wantErr: "Person validation failed: number: `123456` is shorter than the minimum allowed length (8)"},
		{name: "empty name", body: `{"name":"","number":"040-123456"}`, wantErr: "person must have a name and a number"},
		{name: "missing number", body: `{"name":"Ada Lovelace"}`, wantErr: "person must have a name and a number"},
		{name: "empty body", body: ``, wantErr: "person must have a name and a number"},
		{name: "bad json", body: `{"name":`, wantErr: "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, db.NewMemPersons())

			resp, body := do(t, http.MethodPost, srv.URL+"/api/persons", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var errBody ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &errBody))
			assert.Equal(t, tt.wantErr, errBody.Error)

			assert.Empty(t, listPersons(t, srv))
		})
	}
}

func TestGetPerson(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())
	created := createPerson(t, srv, "Arto Hellas", "040-123456")

	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons/"+created.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got personBody
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, created, got)
}

func TestGetMalformedID(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons/123", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"malformatted id"}`, body)
}

func TestGetMissingID(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons/"+models.NewID(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, body)
}

func TestDeleteIsIdempotent(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())
	created := createPerson(t, srv, "Dan Abramov", "12-43-234345")

	for i := 0; i < 2; i++ {
		resp, body := do(t, http.MethodDelete, srv.URL+"/api/persons/"+created.ID, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	}

	resp, _ := do(t, http.MethodDelete, srv.URL+"/api/persons/"+models.NewID(), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, listPersons(t, srv))
}

func TestUpdateNumber(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())
	created := createPerson(t, srv, "Mary Poppendieck", "39-23-6423122")

	resp, body := do(t, http.MethodPut, srv.URL+"/api/persons/"+created.ID, `{"name":"Someone Else","number":"040-999999"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var updated personBody
	require.NoError(t, json.Unmarshal([]byte(body), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Mary Poppendieck", updated.Name)
	assert.Equal(t, "040-999999", updated.Number)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/persons/"+created.ID, `{"number":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "number")

	persons := listPersons(t, srv)
	require.Len(t, persons, 1)
	assert.Equal(t, "040-999999", persons[0].Number)
}

func TestUpdateUnknownIDs(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	resp, body := do(t, http.MethodPut, srv.URL+"/api/persons/123", `{"number":"040-999999"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"malformatted id"}`, body)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/persons/"+models.NewID(), `{"number":"040-999999"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, body)
}

func TestInfo(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())
	createPerson(t, srv, "Ada Lovelace", "39-44-5323523")
	createPerson(t, srv, "Arto Hellas", "040-123456")

	resp, body := do(t, http.MethodGet, srv.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Phonebook has info for 2 people<br/>Mon Oct 19 2026 10:30:00 GMT+0000 (UTC)", body)
	assert.Len(t, listPersons(t, srv), 2)
}

func TestUnknownEndpoint(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nothing"},
		{http.MethodGet, "/nothing.js"},
		{http.MethodPost, "/info"},
		{http.MethodPatch, "/api/persons"},
	} {
		resp, body := do(t, tc.method, srv.URL+tc.path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
		assert.JSONEq(t, `{"error":"unknown endpoint"}`, body, tc.path)
	}
}

func TestStaticIndex(t *testing.T) {
	srv := newServer(t, db.NewMemPersons())

	resp, body := do(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html>phonebook</html>", body)
}

type failingStore struct{ *db.MemPersons }

func (failingStore) List(context.Context) ([]models.Person, error) {
	return nil, errors.New("connection reset")
}

func TestInternalError(t *testing.T) {
	srv := newServer(t, failingStore{db.NewMemPersons()})

	resp, body := do(t, http.MethodGet, srv.URL+"/api/persons", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)
	assert.NotContains(t, body, "connection reset")
}

func TestMetrics(t *testing.T) {
	set := metrics.NewSet()
	srv := httptest.NewServer(NewRouter(Options{Store: db.NewMemPersons(), Metrics: set, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}))
	defer srv.Close()

	do(t, http.MethodGet, srv.URL+"/api/persons/123", "")

	_, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/persons/{id}",status="400"} 1`)
}
