// Package csv reads the raw fragment table and round-trips the KPI dataset
// in their external tabular form.
package csv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mkowalski/kpiq"
)

// Raw column names. The exporter that produces the fragment table uses the
// chunk_* names; the short forms are accepted as aliases. Extra columns are
// ignored.
var rawColumns = map[string][]string{
	"id":     {"chunk_id", "id"},
	"text":   {"chunk_text", "text"},
	"source": {"source_file", "source"},
}

// ReadRawFragments reads the external pre-chunked fragment table. It fails
// with EINVALID when a required column is absent.
func ReadRawFragments(r io.Reader) ([]kpiq.RawFragment, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, kpiq.Errorf(kpiq.EINVALID, "raw fragment table is empty")
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(rawColumns))
	for canonical, aliases := range rawColumns {
		idx := -1
		for _, alias := range aliases {
			for i, name := range header {
				if name == alias {
					idx = i
					break
				}
			}
			if idx >= 0 {
				break
			}
		}
		if idx < 0 {
			return nil, kpiq.Errorf(kpiq.EINVALID, "missing required column in raw fragment table: %s", canonical)
		}
		cols[canonical] = idx
	}

	var raw []kpiq.RawFragment
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, kpiq.Errorf(kpiq.EINVALID, "malformed row in raw fragment table: %s", err)
		}

		id, err := strconv.Atoi(record[cols["id"]])
		if err != nil {
			return nil, kpiq.Errorf(kpiq.EINVALID, "non-integer fragment id %q", record[cols["id"]])
		}

		raw = append(raw, kpiq.RawFragment{
			ID:     id,
			Text:   record[cols["text"]],
			Source: record[cols["source"]],
		})
	}

	return raw, nil
}
