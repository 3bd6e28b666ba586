package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/de-tools/instance-atlas/pkg/models/api"
)

// Reporter writes generated reports as JSON.
type Reporter struct {
	writer io.Writer
	indent bool
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
	}
}

func (r *Reporter) SetIndent(on bool) {
	r.indent = on
}

func (r *Reporter) Handle(report api.Report) error {
	enc := json.NewEncoder(r.writer)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
