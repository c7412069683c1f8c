package legacyimport

// RowError describes why one CSV line was skipped.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Report summarizes an import run. Bad rows are skipped and reported; they
// never abort the whole file.
type Report struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}
