package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/knersus/faultline/internal/model"
	"github.com/knersus/faultline/internal/output"
)

// Output writes a report's catalogue items as JSON to stdout, one item
// per line, in record order.
type Output struct {
	enc        *json.Encoder
	fullDetail bool
}

// New creates a stdout Output. With pretty true each item is indented;
// fullDetail controls whether annotations are emitted.
func New(fullDetail, pretty bool) *Output {
	return NewWriter(os.Stdout, fullDetail, pretty)
}

// NewWriter is New with an explicit destination, for tests.
func NewWriter(w io.Writer, fullDetail, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, fullDetail: fullDetail}
}

func (o *Output) Write(ctx context.Context, report *model.Report) error {
	for _, item := range output.Items(report, o.fullDetail) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.enc.Encode(item); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
