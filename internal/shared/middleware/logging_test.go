package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user_accounts", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	line := buf.String()
	if !strings.Contains(line, "status=404") {
		t.Errorf("log line missing status: %s", line)
	}
	if !strings.Contains(line, "/api/v1/user_accounts") {
		t.Errorf("log line missing path: %s", line)
	}
}

func TestLogging_DefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log line missing implicit 200: %s", buf.String())
	}
}
