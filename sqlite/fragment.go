package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mkowalski/kpiq"
)

// Compile-time interface verification.
var _ kpiq.FragmentService = (*FragmentService)(nil)

// FragmentService implements kpiq.FragmentService using SQLite.
type FragmentService struct {
	db *DB
}

// NewFragmentService creates a new FragmentService.
func NewFragmentService(db *DB) *FragmentService {
	return &FragmentService{db: db}
}

// ReplaceFragments rebuilds the store wholesale from the given fragments,
// preserving their order. Any previously stored fragments are removed.
func (s *FragmentService) ReplaceFragments(ctx context.Context, fragments []*kpiq.Fragment) error {
	for _, f := range fragments {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fragments"); err != nil {
		return err
	}

	for i, f := range fragments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO fragments (chunk_id, text, source, doc_type, year, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, f.ID, f.Text, f.Source, string(f.DocType), f.Year, i); err != nil {
			return fmt.Errorf("failed to insert fragment %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// FindFragments retrieves fragments matching the filter, in store order.
func (s *FragmentService) FindFragments(ctx context.Context, filter kpiq.FragmentFilter) ([]*kpiq.Fragment, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT chunk_id, text, source, doc_type, year FROM fragments WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND chunk_id = ?")
		args = append(args, *filter.ID)
	}
	if len(filter.DocTypes) > 0 {
		query.WriteString(" AND doc_type IN (")
		for i, dt := range filter.DocTypes {
			if i > 0 {
				query.WriteString(", ")
			}
			query.WriteString("?")
			args = append(args, string(dt))
		}
		query.WriteString(")")
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fragments []*kpiq.Fragment
	for rows.Next() {
		var f kpiq.Fragment
		var docType string
		if err := rows.Scan(&f.ID, &f.Text, &f.Source, &docType, &f.Year); err != nil {
			return nil, err
		}
		f.DocType = kpiq.DocType(docType)
		fragments = append(fragments, &f)
	}
	return fragments, rows.Err()
}

// Fingerprint returns an xxHash over all fragments in store order. Derived
// artifacts record it at build time; a rebuilt store yields a new value.
func (s *FragmentService) Fingerprint(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, text, source, doc_type, year
		FROM fragments ORDER BY position ASC
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	h := xxhash.New()
	buf := make([]byte, 8)
	for rows.Next() {
		var f kpiq.Fragment
		var docType string
		if err := rows.Scan(&f.ID, &f.Text, &f.Source, &docType, &f.Year); err != nil {
			return "", err
		}
		binary.BigEndian.PutUint64(buf, uint64(f.ID))
		h.Write(buf)
		h.WriteString(f.Text)
		h.WriteString(f.Source)
		h.WriteString(docType)
		binary.BigEndian.PutUint64(buf, uint64(f.Year))
		h.Write(buf)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}
