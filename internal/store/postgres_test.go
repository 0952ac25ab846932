package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"portfolio/internal/models"
)

var itemCols = []string{"pk", "sk", "data", "created_at", "updated_at"}

// newMockStore returns a CatalogStore over sqlmock with a fixed clock.
func newMockStore(t *testing.T) (*CatalogStore, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s := NewCatalogStore(db)
	s.now = func() time.Time { return now }
	return s, mock, now
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

const (
	qInsert     = `INSERT INTO catalog_items`
	qListPrefix = `FROM catalog_items WHERE pk = $1 AND starts_with(sk, $2)`
	qDelete     = `DELETE FROM catalog_items WHERE pk = $1 AND sk = $2`
)

func q(s string) string { return regexp.QuoteMeta(s) }

func TestCatalogStoreCreateApp(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts under the derived key", func(t *testing.T) {
		s, mock, now := newMockStore(t)
		mock.ExpectExec(q(qInsert)+".*"+q("ON CONFLICT (pk, sk) DO NOTHING")).
			WithArgs("CAT#ai#SUB#edu", "APP#ai-tutor", "App", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		app, err := s.CreateApp(ctx, models.App{CatKey: "ai", SubKey: "edu", Name: "AI Tutor", Desc: "x"})
		if err != nil {
			t.Fatalf("CreateApp: %v", err)
		}
		if app.Slug != "ai-tutor" || !app.CreatedAt.Equal(now) || !app.UpdatedAt.Equal(now) {
			t.Errorf("CreateApp = %+v", app)
		}
		expectMet(t, mock)
	})

	t.Run("no row inserted means conflict", func(t *testing.T) {
		s, mock, _ := newMockStore(t)
		mock.ExpectExec(q(qInsert)).WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := s.CreateApp(ctx, models.App{CatKey: "ai", SubKey: "edu", Name: "AI Tutor"})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
		expectMet(t, mock)
	})

	t.Run("database failure is upstream", func(t *testing.T) {
		s, mock, _ := newMockStore(t)
		mock.ExpectExec(q(qInsert)).WillReturnError(errors.New("connection reset"))

		_, err := s.CreateApp(ctx, models.App{CatKey: "ai", SubKey: "edu", Name: "AI Tutor"})
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("error = %v, want ErrUpstream", err)
		}
		expectMet(t, mock)
	})

	t.Run("invalid name never reaches the database", func(t *testing.T) {
		s, mock, _ := newMockStore(t)
		_, err := s.CreateApp(ctx, models.App{CatKey: "ai", SubKey: "edu", Name: "***"})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want *ValidationError", err)
		}
		expectMet(t, mock)
	})
}

func TestCatalogStoreUpdateApp(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("merges only the patch fields", func(t *testing.T) {
		s, mock, now := newMockStore(t)
		rows := sqlmock.NewRows(itemCols).AddRow(
			"CAT#ai#SUB#edu", "APP#ai-tutor",
			[]byte(`{"name":"AI Tutor","desc":"new","mediaUrl":"m.mp4","status":"active"}`),
			created, now,
		)
		mock.ExpectQuery(q("UPDATE catalog_items SET data = data || $3::jsonb")).
			WithArgs("CAT#ai#SUB#edu", "APP#ai-tutor", `{"desc":"new"}`, sqlmock.AnyArg()).
			WillReturnRows(rows)

		app, err := s.UpdateApp(ctx, "ai", "edu", "ai-tutor", models.AppPatch{Desc: strPtr("new")})
		if err != nil {
			t.Fatalf("UpdateApp: %v", err)
		}
		if app.Desc != "new" || app.MediaURL != "m.mp4" || app.Slug != "ai-tutor" || app.CatKey != "ai" {
			t.Errorf("UpdateApp = %+v", app)
		}
		if !app.CreatedAt.Equal(created) || !app.UpdatedAt.Equal(now) {
			t.Errorf("timestamps = %v / %v", app.CreatedAt, app.UpdatedAt)
		}
		expectMet(t, mock)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		s, mock, _ := newMockStore(t)
		mock.ExpectQuery(q("UPDATE catalog_items")).WillReturnRows(sqlmock.NewRows(itemCols))

		_, err := s.UpdateApp(ctx, "ai", "edu", "ghost", models.AppPatch{Desc: strPtr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
		expectMet(t, mock)
	})
}

func TestCatalogStoreGetApp(t *testing.T) {
	ctx := context.Background()
	s, mock, _ := newMockStore(t)
	mock.ExpectQuery(q("WHERE pk = $1 AND sk = $2")).
		WithArgs("CAT#ai#SUB#edu", "APP#gone").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetApp(ctx, "ai", "edu", "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	expectMet(t, mock)
}

func TestCatalogStoreListCategories(t *testing.T) {
	ctx := context.Background()
	s, mock, now := newMockStore(t)
	rows := sqlmock.NewRows(itemCols).
		AddRow("CAT#ai", "META", []byte(`{"name":"ARTIFICIAL INTELLIGENCE","order":1,"status":"active"}`), now, now).
		AddRow("CAT#inner", "META", []byte(`{"name":"INNER INTELLIGENCE","order":2,"status":"active"}`), now, now)
	mock.ExpectQuery(q("WHERE entity_type = $1")).WithArgs("Category").WillReturnRows(rows)

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 2 || cats[0].CatKey != "ai" || cats[1].Order != 2 {
		t.Errorf("ListCategories = %+v", cats)
	}
	expectMet(t, mock)
}

func TestCatalogStoreListRejectsCorruptRows(t *testing.T) {
	ctx := context.Background()
	s, mock, now := newMockStore(t)
	rows := sqlmock.NewRows(itemCols).AddRow("CAT#ai#SUB#edu", "APP#x", []byte(`{not json`), now, now)
	mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai#SUB#edu", "APP#").WillReturnRows(rows)

	if _, err := s.ListApps(ctx, "ai", "edu"); err == nil {
		t.Error("ListApps should fail on an undecodable document")
	}
	expectMet(t, mock)
}

func TestCatalogStoreUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s, mock, now := newMockStore(t)
	original := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(qInsert)+".*"+q("ON CONFLICT (pk, sk) DO UPDATE")).
		WithArgs("CAT#ai", "SUB#education", "Subcategory", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(original, now))

	sub, err := s.UpsertSubcategory(ctx, models.Subcategory{CatKey: "ai", SubKey: "education", Name: "Education"})
	if err != nil {
		t.Fatalf("UpsertSubcategory: %v", err)
	}
	if !sub.CreatedAt.Equal(original) || !sub.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v", sub.CreatedAt, sub.UpdatedAt)
	}
	if sub.Status != models.StatusActive {
		t.Errorf("status = %q", sub.Status)
	}
	expectMet(t, mock)
}

func TestCatalogStoreDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked without force", func(t *testing.T) {
		s, mock, now := newMockStore(t)
		mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai", "SUB#").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("CAT#ai", "SUB#education", []byte(`{"name":"Education"}`), now, now))

		err := s.DeleteCategory(ctx, "ai", false)
		var hc *HasChildrenError
		if !errors.As(err, &hc) || hc.Children[0] != "education" {
			t.Fatalf("error = %v, want HasChildrenError naming education", err)
		}
		expectMet(t, mock)
	})

	t.Run("force deletes leaves first", func(t *testing.T) {
		s, mock, now := newMockStore(t)
		mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai", "SUB#").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("CAT#ai", "SUB#education", []byte(`{}`), now, now))
		mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai#SUB#education", "APP#").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("CAT#ai#SUB#education", "APP#ai-tutor", []byte(`{}`), now, now))
		mock.ExpectExec(q(qDelete)).WithArgs("CAT#ai#SUB#education", "APP#ai-tutor").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q(qDelete)).WithArgs("CAT#ai", "SUB#education").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q(qDelete)).WithArgs("CAT#ai", "META").WillReturnResult(sqlmock.NewResult(0, 1))

		if err := s.DeleteCategory(ctx, "ai", true); err != nil {
			t.Fatalf("DeleteCategory(force): %v", err)
		}
		expectMet(t, mock)
	})

	t.Run("failure partway stops the cascade", func(t *testing.T) {
		s, mock, now := newMockStore(t)
		mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai", "SUB#").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("CAT#ai", "SUB#education", []byte(`{}`), now, now))
		mock.ExpectQuery(q(qListPrefix)).WithArgs("CAT#ai#SUB#education", "APP#").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("CAT#ai#SUB#education", "APP#ai-tutor", []byte(`{}`), now, now))
		mock.ExpectExec(q(qDelete)).WithArgs("CAT#ai#SUB#education", "APP#ai-tutor").WillReturnError(errors.New("timeout"))

		err := s.DeleteCategory(ctx, "ai", true)
		if !errors.Is(err, ErrUpstream) {
			t.Fatalf("error = %v, want ErrUpstream", err)
		}
		expectMet(t, mock)
	})
}

func TestCatalogStoreDeleteAppIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, mock, _ := newMockStore(t)
	mock.ExpectExec(q(qDelete)).WithArgs("CAT#ai#SUB#edu", "APP#ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteApp(ctx, "ai", "edu", "ghost"); err != nil {
		t.Errorf("DeleteApp of absent app: %v", err)
	}
	expectMet(t, mock)
}
