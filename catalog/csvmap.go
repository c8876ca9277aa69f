package catalog

import "fmt"

// csvNamedColumn matches a canonical name to a column index in a csv file
type csvNamedColumn struct {
	index int
	key   string
}

// CSVColumnMap matches the name and index of columns, so the ingest does not
// depend on the column order of the published scene list
type CSVColumnMap struct {
	entries []csvNamedColumn
}

// NewCSVColumnMap creates a new column map populated with indexes extracted
// from the provided header row
func NewCSVColumnMap(namedColumns []string, columnNamesRow []string) (CSVColumnMap, error) {
	inverseMap := make(map[string]int, len(columnNamesRow))
	for idx, name := range columnNamesRow {
		inverseMap[name] = idx
	}

	entries := make([]csvNamedColumn, len(namedColumns))
	for idx, name := range namedColumns {
		columnIndex, keyExists := inverseMap[name]
		if !keyExists {
			return CSVColumnMap{}, fmt.Errorf("no such column: %s", name)
		}
		entries[idx] = csvNamedColumn{columnIndex, name}
	}

	return CSVColumnMap{entries: entries}, nil
}

// CreateValueMap creates an empty map suitable for matching
// values to column names
func (m *CSVColumnMap) CreateValueMap() map[string]string {
	return make(map[string]string, len(m.entries))
}

// UpdateMap populates the valueMap with the values read from the csv.
func (m *CSVColumnMap) UpdateMap(rawValues []string, valueMap map[string]string) {
	for _, namedCol := range m.entries {
		valueMap[namedCol.key] = rawValues[namedCol.index]
	}
}
