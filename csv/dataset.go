package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/mkowalski/kpiq"
)

// datasetHeader is the fixed column order of the persisted KPI dataset.
var datasetHeader = []string{
	"name", "category", "value", "unit", "year", "description",
	"source", "chunk_ids", "confidence", "reason", "raw_snippet",
}

// WriteKPIDataset writes the KPI dataset in its tabular form, one row per
// record in order. A nil value renders as an empty cell.
func WriteKPIDataset(w io.Writer, kpis []*kpiq.KPI) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(datasetHeader); err != nil {
		return err
	}

	for _, k := range kpis {
		value := ""
		if k.Value != nil {
			value = strconv.FormatFloat(*k.Value, 'f', -1, 64)
		}

		ids := make([]string, len(k.ChunkIDs))
		for i, id := range k.ChunkIDs {
			ids[i] = strconv.Itoa(id)
		}

		record := []string{
			k.Name,
			string(k.Category),
			value,
			k.Unit,
			strconv.Itoa(k.Year),
			k.Description,
			k.Source,
			strings.Join(ids, ", "),
			string(k.Confidence),
			k.Reason,
			k.RawSnippet,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadKPIDataset reads a KPI dataset back from its tabular form. Values are
// parsed with kpiq.ParseValue, so formatted numbers ("1,234.56", "17%")
// survive and invalid cells become nil.
func ReadKPIDataset(r io.Reader) ([]*kpiq.KPI, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, kpiq.Errorf(kpiq.EINVALID, "KPI dataset is empty")
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range datasetHeader {
		if _, ok := cols[name]; !ok {
			return nil, kpiq.Errorf(kpiq.EINVALID, "missing required column in KPI dataset: %s", name)
		}
	}

	var kpis []*kpiq.KPI
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, kpiq.Errorf(kpiq.EINVALID, "malformed row in KPI dataset: %s", err)
		}

		year, err := strconv.Atoi(record[cols["year"]])
		if err != nil {
			return nil, kpiq.Errorf(kpiq.EINVALID, "non-integer year %q", record[cols["year"]])
		}

		kpis = append(kpis, &kpiq.KPI{
			Name:        record[cols["name"]],
			Category:    kpiq.Category(record[cols["category"]]),
			Value:       kpiq.ParseValue(record[cols["value"]]),
			Unit:        record[cols["unit"]],
			Year:        year,
			Description: record[cols["description"]],
			Source:      record[cols["source"]],
			ChunkIDs:    parseChunkIDs(record[cols["chunk_ids"]]),
			Confidence:  kpiq.Confidence(record[cols["confidence"]]),
			Reason:      record[cols["reason"]],
			RawSnippet:  record[cols["raw_snippet"]],
		})
	}

	return kpis, nil
}

// parseChunkIDs parses a comma-joined id list, skipping non-numeric entries.
func parseChunkIDs(s string) []int {
	ids := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
