package repository

import (
	"path/filepath"
	"testing"

	"github.com/camden-git/camerahub/database"
	"github.com/camden-git/camerahub/models"
)

func newTestRepo(t *testing.T) *EncodingRepository {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitGormDB() error: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("AutoMigrateModels() error: %v", err)
	}
	return NewEncodingRepository(db)
}

func TestCreateAndListAll(t *testing.T) {
	repo := newTestRepo(t)

	for _, fixture := range []struct {
		label    string
		encoding []float64
	}{
		{"alice", []float64{0.5, -0.25}},
		{"bob", []float64{1.0, 2.0}},
		{"alice", []float64{0.75, 0.125}},
	} {
		row := &models.FaceEncoding{Label: fixture.label}
		row.SetEncoding(fixture.encoding)
		if err := repo.Create(row); err != nil {
			t.Fatalf("Create(%s) error: %v", fixture.label, err)
		}
		if row.ID == 0 {
			t.Errorf("Create(%s) left ID unset", fixture.label)
		}
		if row.CreatedAt == 0 {
			t.Errorf("Create(%s) left CreatedAt unset", fixture.label)
		}
	}

	rows, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	// insertion order, so a reload sees labels in first-registered order
	wantLabels := []string{"alice", "bob", "alice"}
	for i, row := range rows {
		if row.Label != wantLabels[i] {
			t.Errorf("rows[%d].Label = %q, want %q", i, row.Label, wantLabels[i])
		}
		if len(row.GetEncoding()) != 2 {
			t.Errorf("rows[%d] encoding length = %d, want 2", i, len(row.GetEncoding()))
		}
	}
}

func TestCounts(t *testing.T) {
	repo := newTestRepo(t)

	for _, label := range []string{"alice", "alice", "bob"} {
		row := &models.FaceEncoding{Label: label}
		row.SetEncoding([]float64{1, 0})
		if err := repo.Create(row); err != nil {
			t.Fatalf("Create(%s) error: %v", label, err)
		}
	}

	total, err := repo.CountAll()
	if err != nil {
		t.Fatalf("CountAll() error: %v", err)
	}
	if total != 3 {
		t.Errorf("CountAll() = %d, want 3", total)
	}

	aliceCount, err := repo.CountByLabel("alice")
	if err != nil {
		t.Fatalf("CountByLabel(alice) error: %v", err)
	}
	if aliceCount != 2 {
		t.Errorf("CountByLabel(alice) = %d, want 2", aliceCount)
	}

	noneCount, err := repo.CountByLabel("nobody")
	if err != nil {
		t.Fatalf("CountByLabel(nobody) error: %v", err)
	}
	if noneCount != 0 {
		t.Errorf("CountByLabel(nobody) = %d, want 0", noneCount)
	}
}
