package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestPreflightAllowsPatchAndDelete(t *testing.T) {
	is := is.New(t)

	r := New("iot-device-catalog")
	r.Patch("/api/v0/devices/{id}", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodOptions, "/api/v0/devices/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	is.Equal(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestRecoversFromPanics(t *testing.T) {
	is := is.New(t)

	r := New("iot-device-catalog")
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	is.Equal(rec.Code, http.StatusInternalServerError)
}
