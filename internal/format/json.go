package format

import (
	"encoding/json"
	"io"

	"github.com/harrison/grob/internal/group"
)

// jsonFormatter writes all groups as a single JSON document: an object
// keyed by group key, or a list when keys are omitted.
type jsonFormatter struct{}

func (jsonFormatter) Format(w io.Writer, grouped *group.Grouped, opts Options) error {
	records, squeezed, err := prepare(grouped, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if !opts.WithKeys {
		values := make([]any, 0, len(records))
		for _, rec := range records {
			values = append(values, recordValue(rec, squeezed))
		}
		return enc.Encode(values)
	}
	doc := make(map[string]any, len(records))
	for _, rec := range records {
		doc[rec.key] = recordValue(rec, squeezed)
	}
	return enc.Encode(doc)
}

// jsonlFormatter writes one JSON record per line.
type jsonlFormatter struct{}

func (jsonlFormatter) Format(w io.Writer, grouped *group.Grouped, opts Options) error {
	records, squeezed, err := prepare(grouped, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, rec := range records {
		var line any
		switch {
		case !opts.WithKeys:
			line = recordValue(rec, squeezed)
		case squeezed:
			line = struct {
				Key  string `json:"key"`
				File any    `json:"file"`
			}{rec.key, squeezedValue(rec)}
		default:
			line = struct {
				Key   string         `json:"key"`
				Files map[string]any `json:"files"`
			}{rec.key, groupValue(rec.group)}
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func recordValue(rec record, squeezed bool) any {
	if squeezed {
		return squeezedValue(rec)
	}
	return groupValue(rec.group)
}
