package feedback

import (
	"strconv"
	"strings"
	"time"

	"github.com/valentinpelus/feedbox/pkg/types"
)

// CSVHeader is the first line of every export
const CSVHeader = "Name,Email,Rating,Message,Date"

// ToCSV renders records as CSV with every field quoted. Rows are separated by
// "\n" with no trailing newline; an empty collection yields the header alone.
func ToCSV(records types.Collection) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	for _, r := range records {
		b.WriteByte('\n')
		writeField(&b, r.Name)
		b.WriteByte(',')
		writeField(&b, r.Email)
		b.WriteByte(',')
		writeField(&b, strconv.Itoa(int(r.Rating)))
		b.WriteByte(',')
		writeField(&b, r.Message)
		b.WriteByte(',')
		writeField(&b, r.Date)
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

// ExportFilename names the export file after the UTC date of now
func ExportFilename(now time.Time) string {
	return "feedback_data_" + now.UTC().Format("2006-01-02") + ".csv"
}
