package db

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema holds every table owned by this service.
const Schema = "church"

// Handle is the persistent document store connection. A nil or unconfigured Handle is
// permanently unreachable, which sends every request to the in-memory fallback.
type Handle struct {
	gdb     *gorm.DB
	timeout time.Duration

	mu         sync.Mutex
	migrated   bool
	migrations []func(*gorm.DB) error
}

// Open prepares a lazily-connected gorm handle. An empty DSN yields an unreachable handle.
// The connection is not dialled here: reachability is decided per request by Connect.
func Open(dsn string, probeTimeout time.Duration) (*Handle, error) {
	if dsn == "" {
		log.Println("[db] DATABASE_URL is empty; running on in-memory fallback stores")
		return &Handle{timeout: probeTimeout}, nil
	}

	// Surface slow queries in the service logs.
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 lg,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return NewHandle(gdb, probeTimeout), nil
}

// NewHandle wraps an existing gorm connection.
func NewHandle(gdb *gorm.DB, probeTimeout time.Duration) *Handle {
	if probeTimeout <= 0 {
		probeTimeout = 1500 * time.Millisecond
	}
	return &Handle{gdb: gdb, timeout: probeTimeout}
}

// Register adds a migration that runs once, on the first successful probe.
func (h *Handle) Register(migrate func(*gorm.DB) error) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.migrations = append(h.migrations, migrate)
}

// Connect returns the database when it is reachable and nil otherwise. Inside a request
// wrapped by Probe the answer is computed once and reused, so every handler sees the
// same choice for the whole request.
func (h *Handle) Connect(ctx context.Context) *gorm.DB {
	if m, ok := ctx.Value(probeKey{}).(*probeMemo); ok {
		m.once.Do(func() { m.gdb = h.probe(ctx) })
		return m.gdb
	}
	return h.probe(ctx)
}

// Ping reports reachability for readiness checks.
func (h *Handle) Ping(ctx context.Context) error {
	if h == nil || h.gdb == nil {
		return fmt.Errorf("database not configured")
	}
	sqlDB, err := h.gdb.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (h *Handle) Close() error {
	if h == nil || h.gdb == nil {
		return nil
	}
	sqlDB, err := h.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (h *Handle) probe(ctx context.Context) *gorm.DB {
	if h == nil || h.gdb == nil {
		return nil
	}
	if err := h.Ping(ctx); err != nil {
		log.Printf("[db] unreachable, using fallback: %v", err)
		return nil
	}
	if err := h.migrate(); err != nil {
		log.Printf("[db] migration failed, using fallback: %v", err)
		return nil
	}
	return h.gdb
}

func (h *Handle) migrate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.migrated {
		return nil
	}
	if err := EnsureSchema(h.gdb, Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", Schema, err)
	}
	for _, m := range h.migrations {
		if err := m(h.gdb); err != nil {
			return err
		}
	}
	h.migrated = true
	log.Println("[db] connected and migrated")
	return nil
}

type probeKey struct{}

type probeMemo struct {
	once sync.Once
	gdb  *gorm.DB
}

// Probe gives each request a single reachability decision shared by all of its store lookups.
func (h *Handle) Probe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), probeKey{}, &probeMemo{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
