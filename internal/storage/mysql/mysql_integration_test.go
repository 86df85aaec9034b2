//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"atlas_tours/internal/domain"
	mysqlrepo "atlas_tours/internal/storage/mysql"
)

// ---------- small helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=$PWD/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------

func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=atlas",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "atlas")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	surf := domain.Service{
		ID:          "svc-surf",
		Name:        "Surf Lesson",
		Category:    domain.CategoryActivity,
		BasePrice:   90,
		PriceType:   domain.PricePerPerson,
		Location:    "Lisbon",
		Highlights:  []string{"board rental", "wetsuit"},
		Rating:      4.6,
		ReviewCount: 211,
		Popularity:  0.8,
		Tags:        []string{"summer"},
	}
	hotel := domain.Service{
		ID:        "svc-hotel",
		Name:      "Harbour Hotel",
		Category:  domain.CategoryAccommodation,
		BasePrice: 80,
		PriceType: domain.PricePerPerson,
		Location:  "Lisbon",
	}
	for _, s := range []domain.Service{surf, hotel} {
		if err := repo.UpsertService(ctx, s); err != nil {
			t.Fatalf("UpsertService(%s): %v", s.ID, err)
		}
	}

	// Act + assert: point read round-trips every column
	got, err := repo.GetService(ctx, "svc-surf")
	if err != nil {
		t.Fatalf("GetService: %v", err)
	}
	if got.Name != "Surf Lesson" || got.Category != domain.CategoryActivity || got.BasePrice != 90 {
		t.Fatalf("unexpected service: %+v", got)
	}
	if got.Rating != 4.6 || got.ReviewCount != 211 || got.Popularity != 0.8 {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if len(got.Highlights) != 2 || len(got.Tags) != 1 || got.Tags[0] != "summer" {
		t.Fatalf("JSON columns did not round-trip: %+v", got)
	}

	// Upsert is idempotent and applies updates
	surf.BasePrice = 95
	if err := repo.UpsertService(ctx, surf); err != nil {
		t.Fatalf("second UpsertService: %v", err)
	}
	got, err = repo.GetService(ctx, "svc-surf")
	if err != nil {
		t.Fatalf("GetService after update: %v", err)
	}
	if got.BasePrice != 95 {
		t.Fatalf("update not applied: %+v", got)
	}

	// Category filter + limit
	cat := domain.CategoryActivity
	list, err := repo.ListServices(ctx, domain.ServicesQuery{Category: &cat, Limit: 10})
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(list) != 1 || list[0].ID != "svc-surf" {
		t.Fatalf("unexpected filtered list: %+v", list)
	}

	// Unknown id maps to the domain sentinel
	if _, err := repo.GetService(ctx, "svc-ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Miss logging is keyed and idempotent
	if err := repo.LogMiss(ctx, "svc-gone", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, "svc-gone", 404, "not found"); err != nil {
		t.Fatalf("LogMiss repeat: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM feed_misses WHERE id = ?", "svc-gone").Scan(&n); err != nil {
		t.Fatalf("count misses: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single miss row, got %d", n)
	}
}
