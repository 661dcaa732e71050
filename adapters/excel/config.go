package excel

// ReaderConfig holds container-level reading options
type ReaderConfig struct {
	// MaxRows stops reading a sheet after this many rows; 0 reads everything
	MaxRows int `json:"max_rows"`
	// CSVComma is the field delimiter for .csv files
	CSVComma rune `json:"csv_comma"`
	// CSVLazyQuotes tolerates stray quotes in unquoted fields
	CSVLazyQuotes bool `json:"csv_lazy_quotes"`
	// Password opens encrypted workbooks
	Password string `json:"-"`
}

// DefaultReaderConfig returns sensible defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CSVComma:      ',',
		CSVLazyQuotes: true,
	}
}
