package tmdb

import (
	"context"
	"net/http"
	"strings"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMulti(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/multi", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.Equal(t, "key123", r.URL.Query().Get("api_key"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":348,"media_type":"movie","title":"Alien","release_date":"1979-05-25","poster_path":"/a.jpg","popularity":80.5},
			{"id":1,"media_type":"tv","name":"Alien Worlds","first_air_date":"2020-12-02","popularity":10}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123", 5*time.Second)
	items, err := c.SearchMulti(context.Background(), "alien")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alien", items[0].Title)
	assert.Equal(t, "tv", items[1].MediaType)
	assert.Equal(t, "Alien Worlds", items[1].Name)
}

func TestSearchMulti_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", 5*time.Second)
	_, err := c.SearchMulti(context.Background(), "alien")
	assert.ErrorIs(t, err, ErrSearchFailed)
}

func TestSearchMulti_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 5*time.Second)
	_, err := c.SearchMulti(context.Background(), "alien")
	assert.ErrorIs(t, err, ErrSearchFailed)
}

func TestSearchMulti_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 선언한 길이보다 적게 쓰고 끊음
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte(`{"results":[`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 5*time.Second)
	_, err := c.SearchMulti(context.Background(), "alien")
	assert.ErrorIs(t, err, ErrSearchFailed)
}

func TestSearchMulti_OversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]` + strings.Repeat(" ", maxBodyBytes) + `}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 5*time.Second)
	_, err := c.SearchMulti(context.Background(), "alien")
	assert.ErrorIs(t, err, ErrSearchFailed)
}
