package awin

import "strings"

// ParseLine splits one CSV line into fields. A double quote toggles the
// in-quotes state; commas inside quotes are literal. Embedded quote escaping
// is not supported, matching the flat exports Awin produces.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// ParseRecords parses a CSV body (header row plus data rows) into
// string-keyed records. Short rows keep whatever fields they have; trailing
// headers with no value are simply absent from the record.
func ParseRecords(body string) []map[string]string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var headers []string
	var records []map[string]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headers == nil {
			headers = ParseLine(line)
			continue
		}

		values := ParseLine(line)
		record := make(map[string]string, len(headers))
		for i, v := range values {
			if i >= len(headers) {
				break
			}
			record[headers[i]] = v
		}
		records = append(records, record)
	}

	return records
}
