package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockHandle(t *testing.T) (*Handle, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open() error: %v", err)
	}
	return NewHandle(gdb, time.Second), mock
}

func TestConnectUnconfiguredHandle(t *testing.T) {
	h, err := Open("", time.Second)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if got := h.Connect(context.Background()); got != nil {
		t.Fatal("expected an unconfigured handle to be unreachable")
	}

	var nilHandle *Handle
	if nilHandle.Connect(context.Background()) != nil {
		t.Fatal("expected a nil handle to be unreachable")
	}
}

func TestConnectMigratesOnce(t *testing.T) {
	h, mock := newMockHandle(t)
	calls := 0
	h.Register(func(*gorm.DB) error {
		calls++
		return nil
	})

	mock.ExpectPing()
	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "church"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPing()

	if h.Connect(context.Background()) == nil {
		t.Fatal("expected reachable database")
	}
	if h.Connect(context.Background()) == nil {
		t.Fatal("expected reachable database on second probe")
	}
	if calls != 1 {
		t.Errorf("expected migrations to run once, ran %d times", calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestConnectPingFailure(t *testing.T) {
	h, mock := newMockHandle(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	if h.Connect(context.Background()) != nil {
		t.Fatal("expected nil when ping fails")
	}
}

func TestProbeSharesOneDecisionPerRequest(t *testing.T) {
	h, mock := newMockHandle(t)
	mock.ExpectPing()
	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "church"`).WillReturnResult(sqlmock.NewResult(0, 0))

	handler := h.Probe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only one ping is expected; a second probe would fail and return nil.
		first := h.Connect(r.Context())
		second := h.Connect(r.Context())
		if first == nil || second == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
