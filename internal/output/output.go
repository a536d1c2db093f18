package output

import (
	"context"

	"github.com/knersus/faultline/internal/model"
)

// Output defines the interface for analysis report destinations.
type Output interface {
	Write(ctx context.Context, report *model.Report) error
	Close() error
}
