// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
)

// AdminIdentity is the admin principal of every test engine.
const AdminIdentity = "0x00000000000000000000000000000000000000ad"

// Identity returns a deterministic well-formed identity for n.
func Identity(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            cliparse.DefaultPort,
		DatabaseType:    "memory",
		AdminIdentity:   AdminIdentity,
		IdentityKeySalt: "test-key-salt",
		ReceiptSalt:     "test-receipt-salt",
		AMQPExchange:    cliparse.DefaultAMQPExchange,
		LogLevel:        "error",
		LogFormat:       "text",
	}
}

// FixedClock returns a clock that advances one second per call from a fixed
// start, so ballots get distinct, ordered timestamps.
func FixedClock() election.ClockFunc {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// Quiet is a logger that drops everything.
func Quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestEngine opens an engine over store with the test admin and salts.
func NewTestEngine(t *testing.T, store election.Store) *election.Engine {
	t.Helper()

	cfg := GetTestConfig()
	eng, err := election.Open(context.Background(), cfg.AdminIdentity, store,
		election.WithClock(FixedClock()),
		election.WithLogger(Quiet()),
		election.WithReceiptSalt(cfg.ReceiptSalt),
	)
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	return eng
}

// AuthHeaders returns the identity headers for identity under cfg.
func AuthHeaders(cfg cliparse.Config, identity string) map[string]string {
	return map[string]string{
		"X-Identity":     identity,
		"X-Identity-Key": auth.GenerateIdentityKey(identity, cfg.IdentityKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
