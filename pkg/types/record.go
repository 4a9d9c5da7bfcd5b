package types

// Header is the CSV header row written before any record.
var Header = []string{"Document_Name", "Text_Content"}

// Record is one output row: a document's base name and its decoded text.
type Record struct {
	DocumentName string
	TextContent  string
}

// Row returns the record as CSV fields in Header order.
func (r Record) Row() []string {
	return []string{r.DocumentName, r.TextContent}
}
