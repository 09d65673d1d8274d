package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mkowalski/kpiq"
)

// Compile-time interface verification.
var _ kpiq.KPIService = (*KPIService)(nil)

// KPIService implements kpiq.KPIService using SQLite.
type KPIService struct {
	db *DB
}

// NewKPIService creates a new KPIService.
func NewKPIService(db *DB) *KPIService {
	return &KPIService{db: db}
}

// ReplaceKPIs rewrites the dataset wholesale, preserving order.
func (s *KPIService) ReplaceKPIs(ctx context.Context, kpis []*kpiq.KPI) error {
	for _, k := range kpis {
		if err := k.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM kpis"); err != nil {
		return err
	}

	for i, k := range kpis {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kpis (name, category, value, unit, year, description, source, chunk_ids, confidence, reason, raw_snippet, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, k.Name, string(k.Category), nullFloat(k.Value), k.Unit, k.Year, k.Description,
			k.Source, joinChunkIDs(k.ChunkIDs), string(k.Confidence), k.Reason, k.RawSnippet, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindKPIs retrieves KPI records matching the filter, in dataset order.
func (s *KPIService) FindKPIs(ctx context.Context, filter kpiq.KPIFilter) ([]*kpiq.KPI, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT name, category, value, unit, year, description, source, chunk_ids, confidence, reason, raw_snippet
		FROM kpis WHERE 1=1
	`)

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, string(*filter.Category))
	}

	query.WriteString(" ORDER BY position ASC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []*kpiq.KPI
	for rows.Next() {
		var k kpiq.KPI
		var category, confidence, chunkIDs string
		var value sql.NullFloat64
		if err := rows.Scan(&k.Name, &category, &value, &k.Unit, &k.Year, &k.Description,
			&k.Source, &chunkIDs, &confidence, &k.Reason, &k.RawSnippet); err != nil {
			return nil, err
		}
		k.Category = kpiq.Category(category)
		k.Confidence = kpiq.Confidence(confidence)
		k.ChunkIDs = splitChunkIDs(chunkIDs)
		if value.Valid {
			v := value.Float64
			k.Value = &v
		}
		kpis = append(kpis, &k)
	}
	return kpis, rows.Err()
}

// ApplyOverride rewrites value, confidence and reason for the named record
// only. All other rows are untouched.
func (s *KPIService) ApplyOverride(ctx context.Context, override kpiq.Override) error {
	if override.Name == "" {
		return kpiq.Errorf(kpiq.EINVALID, "override name required")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE kpis SET value = ?, confidence = ?, reason = ? WHERE name = ?
	`, nullFloat(override.Value), string(kpiq.ConfidenceManual), override.Reason, override.Name)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return kpiq.Errorf(kpiq.ENOTFOUND, "KPI %q not found", override.Name)
	}
	return nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
