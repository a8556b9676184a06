package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok123")
	require.NoError(t, c.Get(context.Background(), "/x", nil, &struct{}{}))
	assert.Equal(t, "Bearer tok123", gotAuth)

	c.SetToken("")
	require.NoError(t, c.Get(context.Background(), "/x", nil, &struct{}{}))
	assert.Empty(t, gotAuth)
}

func TestErrorDetailDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Already applied to this job"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/applications", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Already applied to this job", apiErr.Detail)
}

func TestErrorMessageFallback(t *testing.T) {
	assert.Equal(t, "server detail",
		ErrorMessage(&APIError{Status: 400, Detail: "server detail"}, "fallback"))
	assert.Equal(t, "fallback",
		ErrorMessage(&APIError{Status: 500}, "fallback"))
	assert.Equal(t, "fallback",
		ErrorMessage(errors.New("dial tcp: refused"), "fallback"))
}

func TestUploadMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "resume.pdf", header.Filename)
		w.Write([]byte(`{"resume_id": "resume_abc"}`))
	}))
	defer srv.Close()

	var out struct {
		ResumeID string `json:"resume_id"`
	}
	err := New(srv.URL).Upload(context.Background(), "/upload", "file", "resume.pdf",
		strings.NewReader("pdf bytes"), &out)
	require.NoError(t, err)
	assert.Equal(t, "resume_abc", out.ResumeID)
}

func TestQueryParamsEncoded(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	q := url.Values{}
	q.Set("query", "backend engineer")
	require.NoError(t, c.Get(context.Background(), "/jobs/search", q, &struct{}{}))
	assert.Equal(t, "query=backend+engineer", gotQuery)
}
