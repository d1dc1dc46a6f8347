// Package photos stores the metadata records linking original images to
// their thumbnails.
package photos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photoshare/internal/common"
	"github.com/dmitrijs2005/photoshare/internal/dbx"
	"github.com/dmitrijs2005/photoshare/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the record for record.Filename wholesale. Every field is
// taken from the new record; there is no partial-field merge.
func (r *PostgresRepository) Upsert(ctx context.Context, record *models.PhotoRecord) error {
	extra, err := marshalExtra(record.Extra)
	if err != nil {
		return fmt.Errorf("marshal extra: %w", err)
	}

	query := `
		INSERT INTO photos (filename, original_url, thumbnail_url, email, uploaded_at, extra)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (filename)
		DO UPDATE SET
			original_url = EXCLUDED.original_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			email = EXCLUDED.email,
			uploaded_at = EXCLUDED.uploaded_at,
			extra = EXCLUDED.extra;
	`
	res, err := r.db.ExecContext(ctx, query,
		record.Filename, record.OriginalURL, record.ThumbnailURL, record.Email, record.UploadedAt, extra)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// GetByFilename returns the record for filename, or common.ErrorNotFound.
func (r *PostgresRepository) GetByFilename(ctx context.Context, filename string) (*models.PhotoRecord, error) {
	query := `SELECT filename, original_url, thumbnail_url, email, uploaded_at, extra FROM photos
		WHERE filename=$1
		`

	result := &models.PhotoRecord{}
	var extra []byte
	err := r.db.QueryRowContext(ctx, query, filename).
		Scan(&result.Filename, &result.OriginalURL, &result.ThumbnailURL, &result.Email, &result.UploadedAt, &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select photo: %w", err)
	}
	if err := unmarshalExtra(extra, result); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns all records ordered by filename.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.PhotoRecord, error) {
	query := `SELECT filename, original_url, thumbnail_url, email, uploaded_at, extra FROM photos
		ORDER BY filename
		`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.PhotoRecord
	for rows.Next() {
		var item models.PhotoRecord
		var extra []byte
		if err := rows.Scan(&item.Filename, &item.OriginalURL, &item.ThumbnailURL, &item.Email, &item.UploadedAt, &extra); err != nil {
			return nil, err
		}
		if err := unmarshalExtra(extra, &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func marshalExtra(extra map[string]string) ([]byte, error) {
	if extra == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(extra)
}

func unmarshalExtra(data []byte, record *models.PhotoRecord) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &record.Extra); err != nil {
		return fmt.Errorf("unmarshal extra: %w", err)
	}
	if len(record.Extra) == 0 {
		record.Extra = nil
	}
	return nil
}
