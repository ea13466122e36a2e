package remotestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/option-types", r.URL.Path)
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	raw, err := client.List(context.Background(), "option-types")

	assert.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(raw))
}

func TestListStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.List(context.Background(), "option-types")

	failure, ok := AsFailure(err)
	assert.True(t, ok)
	assert.Equal(t, FailureStatus, failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, failure.StatusCode)
	assert.Equal(t, "Server responded with code 500", failure.Message())
}

func TestListTransportFailure(t *testing.T) {
	// A closed server is as unreachable as one that never existed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	_, err := client.List(context.Background(), "option-types")

	assert.True(t, IsKind(err, FailureTransport))
	failure, _ := AsFailure(err)
	assert.Equal(t, "Network error: could not reach the server", failure.Message())
}

func TestListParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.List(context.Background(), "option-types")

	assert.True(t, IsKind(err, FailureParse))
}

func TestCreateSendsPayloadAndNormalizesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/option-types", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"42","item_name":"alpha"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	rec, err := client.Create(context.Background(), "option-types", map[string]string{"name": "alpha"})

	assert.NoError(t, err)
	assert.Equal(t, "42", rec.ID())
	assert.Equal(t, "alpha", rec.StringValue("itemName"))
}

func TestUpdateTargetsRecordPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/option-types/42", r.URL.Path)
		w.Write([]byte(`{"id":"42","name":"renamed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	rec, err := client.Update(context.Background(), "option-types", "42", map[string]string{"name": "renamed"})

	assert.NoError(t, err)
	assert.Equal(t, "renamed", rec.StringValue("name"))
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/option-types/42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.Delete(context.Background(), "option-types", "42")

	assert.NoError(t, err)
}

func TestDeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.Delete(context.Background(), "option-types", "42")

	failure, ok := AsFailure(err)
	assert.True(t, ok)
	assert.Equal(t, FailureStatus, failure.Kind)
	assert.Equal(t, http.StatusNotFound, failure.StatusCode)
}
