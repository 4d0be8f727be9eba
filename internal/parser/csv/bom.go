package csv

import "strings"

// utf8BOM is stripped from the first header cell if present. Excel and many
// export tools prepend it to UTF-8 CSV files.
const utf8BOM = "\uFEFF"

// stripBOM removes a UTF-8 BOM from the first field of a header row.
func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header
}
