package repositories

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"aith/db/migrations"
	"aith/internal/models"
)

func TestListMigrationFiles(t *testing.T) {
	f := fstest.MapFS{
		"notes.txt":            {Data: []byte("ignore")},
		"0002_index.sql":       {Data: []byte("--")},
		"0001_scripts.sql":     {Data: []byte("--")},
		"nested/0003_more.sql": {Data: []byte("--")},
	}

	got, err := listMigrationFiles(f)
	if err != nil {
		t.Fatalf("listMigrationFiles returned error: %v", err)
	}
	want := []string{"0001_scripts.sql", "0002_index.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := listMigrationFiles(migrations.Files)
	if err != nil {
		t.Fatalf("list embedded migrations: %v", err)
	}
	if len(files) == 0 || files[0] != "0001_scripts.sql" {
		t.Fatalf("unexpected embedded migrations: %v", files)
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestScanScript(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	row := fakeRow{values: []any{"abc", "thumbed", "octopus facts", created, (*time.Time)(nil)}}

	s, err := scanScript(row)
	if err != nil {
		t.Fatalf("scanScript: %v", err)
	}
	if s.ID != "abc" || s.Status != models.StatusThumbed || s.Topic != "octopus facts" || !s.CreatedAt.Equal(created) {
		t.Fatalf("unexpected script %+v", s)
	}
}

func TestScanScriptPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanScript(fakeRow{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestClaimLatestSQL(t *testing.T) {
	for _, want := range []string{
		"UPDATE scripts",
		"WHERE status = $1",
		"ORDER BY created_at DESC",
		"LIMIT 1",
		"FOR UPDATE SKIP LOCKED",
		"RETURNING " + scriptColumns,
	} {
		if !strings.Contains(claimLatestSQL, want) {
			t.Errorf("claim query missing %q:\n%s", want, claimLatestSQL)
		}
	}
	if strings.Index(claimLatestSQL, "ORDER BY created_at DESC") > strings.Index(claimLatestSQL, "FOR UPDATE SKIP LOCKED") {
		t.Error("row lock must apply to the ordered subselect")
	}
}
