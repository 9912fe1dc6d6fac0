package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-newsdigest/pkg/logger"
)

func TestFaviconRepository_ResolveFavicon_FromLinkTag(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `<html><head><link rel="shortcut icon" href="/static/icon.png"></head></html>`)
	}))
	defer srv.Close()

	repo := NewFaviconRepository(srv.Client(), time.Minute, logger.NewNop())

	icon, err := repo.ResolveFavicon(context.Background(), srv.URL+"/news/article-1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/static/icon.png", icon)

	icon, err = repo.ResolveFavicon(context.Background(), srv.URL+"/news/article-2")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/static/icon.png", icon)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup for the same host is cached")
}

func TestFaviconRepository_ResolveFavicon_DefaultLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	repo := NewFaviconRepository(srv.Client(), time.Minute, logger.NewNop())

	icon, err := repo.ResolveFavicon(context.Background(), srv.URL+"/story")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/favicon.ico", icon)
}

func TestFaviconRepository_ResolveFavicon_InvalidURL(t *testing.T) {
	repo := NewFaviconRepository(nil, time.Minute, logger.NewNop())

	_, err := repo.ResolveFavicon(context.Background(), "not a url")
	assert.Error(t, err)
}
