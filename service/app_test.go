package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"rawblog/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	for _, backend := range []string{"memory", "badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Backend = backend

			app, err := NewApp(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { app.Close() })

			form := url.Values{"title": {"T"}, "content": {"C"}}
			req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			app.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "Post created with ID: 1", w.Body.String())
		})
	}
}

func TestAppDefaults(t *testing.T) {
	app, err := NewApp(config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	send := func(method, target string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		w := httptest.NewRecorder()
		app.Handler().ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "Post created with ID: 1", send(http.MethodPost, "/create", url.Values{"title": {"one"}, "content": {"1"}}).Body.String())
	assert.Equal(t, "Post created with ID: 2", send(http.MethodPost, "/create", url.Values{"title": {"two"}, "content": {"2"}}).Body.String())
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/post/1/delete", nil).Code)

	// One post is left, so the next ID is 2 and post 2 is replaced.
	w := send(http.MethodPost, "/create", url.Values{"title": {"<b>A</b>"}, "content": {"x"}})
	assert.Equal(t, "Post created with ID: 2", w.Body.String())

	w = send(http.MethodGet, "/post/2", nil)
	assert.Equal(t, "<h1><b>A</b></h1><p>x</p>", w.Body.String())
}

func TestNewAppInvalidStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.Store.IDStrategy = "random"

	_, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestAppGracefulShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Serve(ctx, ln)
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "No posts available.")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
	assert.Error(t, err)
}
