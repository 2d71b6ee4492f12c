package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/gracecity/church-backend/internal/apperr"
	"github.com/gracecity/church-backend/internal/auth"
	"github.com/gracecity/church-backend/internal/counselling"
	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/events"
	"github.com/gracecity/church-backend/internal/sermons"
	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/team"
	"github.com/gracecity/church-backend/internal/testimonies"
	"github.com/gracecity/church-backend/internal/utils"
)

// CLI flags
var (
	dsn           = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	adminEmail    = flag.String("admin-email", "", "Create an account with this email")
	adminPassword = flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "Password for -admin-email (default: env SEED_ADMIN_PASSWORD)")
	adminName     = flag.String("admin-name", "Administrator", "Display name for -admin-email")
	adminRole     = flag.String("role", utils.RoleSuperAdmin, "Role for -admin-email: super_admin, admin or editor")
	contentPath   = flag.String("content", "", "YAML file of content to import (same layout as FALLBACK_SEED_FILE)")
	dryRun        = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if *adminEmail == "" && *contentPath == "" {
		fatalf("nothing to do: pass --admin-email and/or --content")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	handle, err := db.Open(*dsn, 5*time.Second)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer handle.Close()

	auth.Init(handle)
	m := modules{
		events:      events.Init(handle),
		testimonies: testimonies.Init(handle),
		sermons:     sermons.Init(handle, nil),
		team:        team.Init(handle),
		counselling: counselling.Init(handle),
	}

	gdb := handle.Connect(ctx)
	if gdb == nil {
		fatalf("database unreachable")
	}

	if *adminEmail != "" {
		if err := createAdmin(ctx, gdb); err != nil {
			fatalf("create account: %v", err)
		}
	}
	if *contentPath != "" {
		if err := importContent(ctx, gdb, m); err != nil {
			fatalf("import content: %v", err)
		}
	}
}

func createAdmin(ctx context.Context, gdb *gorm.DB) error {
	if len(*adminPassword) < 8 {
		return errors.New("--admin-password must be at least 8 characters")
	}
	switch *adminRole {
	case utils.RoleSuperAdmin, utils.RoleAdmin, utils.RoleEditor:
	default:
		return fmt.Errorf("unknown role %q", *adminRole)
	}
	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		return err
	}
	acct := auth.Account{
		Email:        auth.NormalizeEmail(*adminEmail),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(*adminName),
		Role:         *adminRole,
		IsActive:     true,
	}
	if *dryRun {
		fmt.Printf("dry run: would create %s (%s)\n", acct.Email, acct.Role)
		return nil
	}
	err = auth.CreateAccount(ctx, store.NewGormStore[auth.Account](gdb), &acct)
	if errors.Is(err, apperr.ErrConflict) {
		fmt.Printf("account %s already exists, skipped\n", acct.Email)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("created %s account %s (id %s)\n", acct.Role, acct.Email, acct.ID)
	return nil
}

type modules struct {
	events      *events.Module
	testimonies *testimonies.Module
	sermons     *sermons.Module
	team        *team.Module
	counselling *counselling.Module
}

type importer func(ctx context.Context, f *store.SeedFile, gdb *gorm.DB) (name string, created, skipped int, err error)

func importContent(ctx context.Context, gdb *gorm.DB, m modules) error {
	f, err := store.LoadSeedFile(*contentPath)
	if err != nil {
		return err
	}
	for _, imp := range []importer{
		section(m.events.Backend()),
		section(m.testimonies.Backend()),
		section(m.sermons.Backend()),
		section(m.team.Backend()),
		section(m.counselling.Counsellors()),
	} {
		name, created, skipped, err := imp(ctx, f, gdb)
		if err != nil {
			return err
		}
		if created+skipped > 0 {
			fmt.Printf("%-12s created=%d skipped=%d\n", name, created, skipped)
		}
	}
	return nil
}

// section parses one resource's records through its fallback store, then writes them to
// the database. Records whose id already exists are skipped.
func section[T any](b *store.Backend[T]) importer {
	return func(ctx context.Context, f *store.SeedFile, gdb *gorm.DB) (string, int, int, error) {
		if _, err := store.SeedInto(f, b); err != nil {
			return b.Name(), 0, 0, err
		}
		items, _, err := b.Memory().List(ctx, store.Query[T]{})
		if err != nil {
			return b.Name(), 0, 0, err
		}
		if *dryRun {
			return b.Name(), 0, len(items), nil
		}

		target := store.NewGormStore[T](gdb)
		created, skipped := 0, 0
		for i := range items {
			if err := target.Create(ctx, &items[i]); err != nil {
				if errors.Is(err, apperr.ErrConflict) {
					skipped++
					continue
				}
				return b.Name(), created, skipped, err
			}
			created++
		}
		return b.Name(), created, skipped, nil
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
