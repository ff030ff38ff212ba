package format

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/harrison/grob/internal/group"
)

// tableFormatter writes groups as delimited rows with a header, covering
// both the csv and tsv formats.
type tableFormatter struct {
	delimiter rune
}

func (t tableFormatter) Format(w io.Writer, grouped *group.Grouped, opts Options) error {
	records, squeezed, err := prepare(grouped, opts)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.Comma = t.delimiter

	header := opts.TagNames
	if squeezed {
		header = []string{"files"}
	}
	if opts.WithKeys {
		header = append([]string{"key"}, header...)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		var cells []string
		if squeezed {
			cells = []string{squeezedCell(rec)}
		} else {
			cells = make([]string, 0, len(opts.TagNames))
			for _, tag := range opts.TagNames {
				cells = append(cells, memberCell(rec.group, tag))
			}
		}
		if opts.WithKeys {
			cells = append([]string{rec.key}, cells...)
		}
		if err := writer.Write(cells); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// memberCell renders one tag's paths for a row, empty when the tag is
// absent from the group. Multiple paths are joined with ", ".
func memberCell(g group.Group, tag string) string {
	m, ok := g[tag]
	if !ok {
		return ""
	}
	return strings.Join(m.Paths, ", ")
}

func squeezedCell(rec record) string {
	if rec.squeezed == nil {
		return ""
	}
	return strings.Join(rec.squeezed.Paths, ", ")
}
