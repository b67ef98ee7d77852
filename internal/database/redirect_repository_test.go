package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dealerhub/seo-engine/internal/database"
	"github.com/dealerhub/seo-engine/internal/models"
)

func TestRedirectRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := database.NewRedirectRepository(sqlxDB)
	ctx := context.Background()

	tenantID := uuid.New()
	req := &models.RedirectCreateRequest{
		TenantID: tenantID,
		OldPath:  "/old",
		NewPath:  "/new",
	}

	t.Run("inserts with defaults", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "old_path", "new_path", "status_code", "is_active"}).
			AddRow(uuid.New(), tenantID, "/old", "/new", 301, true)
		mock.ExpectQuery("INSERT INTO url_redirects").
			WillReturnRows(rows)

		redirect, err := repo.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		if redirect.StatusCode != 301 || !redirect.IsActive {
			t.Errorf("Create() returned unexpected redirect: %+v", redirect)
		}
	})

	t.Run("maps unique violation to ErrAlreadyExists", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO url_redirects").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(ctx, req)
		if !errors.Is(err, models.ErrAlreadyExists) {
			t.Errorf("Create() error = %v, want ErrAlreadyExists", err)
		}
	})

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestRedirectRepository_GetActiveByOldPath(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := database.NewRedirectRepository(sqlxDB)
	ctx := context.Background()

	tenantID := uuid.New()

	t.Run("returns active redirect", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "old_path", "new_path", "status_code", "is_active"}).
			AddRow(uuid.New(), tenantID, "/old", "/new", 302, true)
		mock.ExpectQuery("SELECT (.+) FROM url_redirects").
			WithArgs(tenantID, "/old").
			WillReturnRows(rows)

		redirect, err := repo.GetActiveByOldPath(ctx, tenantID, "/old")
		if err != nil {
			t.Fatalf("GetActiveByOldPath() unexpected error: %v", err)
		}
		if redirect.NewPath != "/new" || redirect.StatusCode != 302 {
			t.Errorf("GetActiveByOldPath() returned unexpected redirect: %+v", redirect)
		}
	})

	t.Run("returns ErrNotFound when absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM url_redirects").
			WithArgs(tenantID, "/missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetActiveByOldPath(ctx, tenantID, "/missing")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetActiveByOldPath() error = %v, want ErrNotFound", err)
		}
	})

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestRedirectRepository_Deactivate(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := database.NewRedirectRepository(sqlxDB)
	ctx := context.Background()

	t.Run("deactivates existing redirect", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec("UPDATE url_redirects SET is_active = false").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.Deactivate(ctx, id); err != nil {
			t.Errorf("Deactivate() unexpected error: %v", err)
		}
	})

	t.Run("returns ErrNotFound when nothing updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE url_redirects SET is_active = false").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Deactivate(ctx, uuid.New())
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Deactivate() error = %v, want ErrNotFound", err)
		}
	})

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
