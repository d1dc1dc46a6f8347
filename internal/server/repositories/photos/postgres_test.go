package photos

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/photoshare/internal/common"
	"github.com/dmitrijs2005/photoshare/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var upsertQuery = `(?s)^\s*INSERT\s+INTO\s+photos\b.*ON\s+CONFLICT\s*\(filename\)\s*DO\s+UPDATE\s+SET\b.*extra\s*=\s*EXCLUDED\.extra;?\s*$`

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	uploadedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(upsertQuery).
		WithArgs("cat.jpg", "https://photos.s3.amazonaws.com/cat.jpg",
			"https://thumbnails.s3.amazonaws.com/thumb-cat.jpg", "a@b.com", uploadedAt, []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.PhotoRecord{
		Filename:     "cat.jpg",
		OriginalURL:  "https://photos.s3.amazonaws.com/cat.jpg",
		ThumbnailURL: "https://thumbnails.s3.amazonaws.com/thumb-cat.jpg",
		Email:        "a@b.com",
		UploadedAt:   uploadedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_ExtraFieldsMarshalled(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	uploadedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(upsertQuery).
		WithArgs("cat.jpg", "o", "t", "a@b.com", uploadedAt, []byte(`{"camera":"x100"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.PhotoRecord{
		Filename:     "cat.jpg",
		OriginalURL:  "o",
		ThumbnailURL: "t",
		Email:        "a@b.com",
		UploadedAt:   uploadedAt,
		Extra:        map[string]string{"camera": "x100"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WillReturnError(errors.New("connection refused"))

	err := repo.Upsert(context.Background(), &models.PhotoRecord{Filename: "cat.jpg"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestUpsert_UnexpectedRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Upsert(context.Background(), &models.PhotoRecord{Filename: "cat.jpg"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetByFilename_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	uploadedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"filename", "original_url", "thumbnail_url", "email", "uploaded_at", "extra"}).
		AddRow("cat.jpg", "o", "t", "a@b.com", uploadedAt, []byte(`{"camera":"x100"}`))

	mock.ExpectQuery(`(?s)^\s*SELECT\s+filename,.*FROM\s+photos\s+WHERE\s+filename=\$1`).
		WithArgs("cat.jpg").
		WillReturnRows(rows)

	rec, err := repo.GetByFilename(context.Background(), "cat.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Email != "a@b.com" || rec.ThumbnailURL != "t" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Extra["camera"] != "x100" {
		t.Fatalf("extra not unmarshalled: %+v", rec.Extra)
	}
}

func TestGetByFilename_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+filename,.*FROM\s+photos\s+WHERE\s+filename=\$1`).
		WithArgs("missing.jpg").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByFilename(context.Background(), "missing.jpg")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestList_ReturnsAllRecords(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	uploadedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"filename", "original_url", "thumbnail_url", "email", "uploaded_at", "extra"}).
		AddRow("a.jpg", "oa", "ta", "unknown", uploadedAt, []byte(`{}`)).
		AddRow("b.jpg", "ob", "tb", "b@c.com", uploadedAt, []byte(`{}`))

	mock.ExpectQuery(`(?s)^\s*SELECT\s+filename,.*FROM\s+photos\s+ORDER\s+BY\s+filename`).
		WillReturnRows(rows)

	recs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %d", len(recs))
	}
	if recs[0].Filename != "a.jpg" || recs[1].Email != "b@c.com" {
		t.Fatalf("unexpected records: %+v, %+v", recs[0], recs[1])
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+filename,.*FROM\s+photos\s+ORDER\s+BY\s+filename`).
		WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
