package variant

import (
	"context"
	"fmt"
	"strings"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/id"
	"varibulk/pkg/logger"
)

// Phase is a stage of batch processing.
type Phase string

const (
	PhaseValidating Phase = "VALIDATING"
	PhaseProcessing Phase = "PROCESSING"
	PhaseDone       Phase = "DONE"
)

// RowStatus is the outcome of one batch row.
type RowStatus string

const (
	RowCreated RowStatus = "created"
	RowSkipped RowStatus = "skipped"
	RowFailed  RowStatus = "failed"
)

// RowOutcome is the result of processing one row.
type RowOutcome struct {
	Row      int       `json:"row"`
	Template string    `json:"template"`
	Status   RowStatus `json:"status"`
	Item     string    `json:"item,omitempty"`
	Summary  string    `json:"summary"`
	Error    string    `json:"error,omitempty"`
}

// line renders the outcome as a log line.
func (o RowOutcome) line(templateLabel string) string {
	switch o.Status {
	case RowCreated:
		return fmt.Sprintf("• Created variant %s for %s on template %s.", o.Item, o.Summary, templateLabel)
	case RowSkipped:
		return fmt.Sprintf("• Skipped %s for template %s: variant already exists (%s).", o.Summary, templateLabel, o.Item)
	default:
		return fmt.Sprintf("• Failed to create variant for %s on template %s: %s", o.Summary, templateLabel, o.Error)
	}
}

// BatchResult is the aggregate outcome of a batch.
type BatchResult struct {
	Log      string       `json:"log"`
	Created  []string     `json:"created"`
	Outcomes []RowOutcome `json:"outcomes"`
}

// CreateVariants validates the whole batch, then materialises row by row.
// Validation and configuration errors abort before anything is stored.
// A row that fails to materialise is reported to the error sink and logged;
// the remaining rows still run. Existing variants are skipped, not counted.
func (s *Service) CreateVariants(ctx context.Context, batch Batch) (*BatchResult, error) {
	ctx = logger.WithFields(ctx, "batch_id", id.New().String())
	log := logger.FromContext(ctx).WithComponent("variant.bulk")

	log.Infow("variant batch", "phase", PhaseValidating, "rows", len(batch.Rows))
	contexts, err := s.ValidateRows(ctx, batch)
	if err != nil {
		log.Warnw("variant batch rejected", "error", err)
		return nil, err
	}

	log.Infow("variant batch", "phase", PhaseProcessing, "templates", len(contexts))
	result := &BatchResult{Created: []string{}}
	lines := make([]string, 0, len(batch.Rows))

	for i, row := range batch.Rows {
		template := batch.TemplateFor(row)
		tc, ok := contexts[template]
		if !ok {
			continue
		}

		rowCtx := logger.WithFields(ctx, "row", i+1, "template", template)
		outcome := s.processRow(rowCtx, i+1, tc, row)
		if outcome.Status == RowCreated {
			result.Created = append(result.Created, outcome.Item)
		}
		logger.Debug(rowCtx, "variant row processed", "status", outcome.Status, "item", outcome.Item)

		result.Outcomes = append(result.Outcomes, outcome)
		lines = append(lines, outcome.line(tc.Label))
	}

	result.Log = strings.Join(lines, "\n")
	log.Infow("variant batch", "phase", PhaseDone,
		"created", len(result.Created), "processed", len(result.Outcomes))
	return result, nil
}

func (s *Service) processRow(ctx context.Context, n int, tc *TemplateContext, row Row) RowOutcome {
	outcome := RowOutcome{Row: n, Template: tc.Template}

	b, err := Bind(tc, row.Selections())
	if err != nil {
		outcome.Summary = strings.Join(row.Values, ", ")
		return s.fail(ctx, outcome, err)
	}
	outcome.Summary = b.Summary()

	res, err := s.materializer.Materialize(ctx, MaterializeRequest{Context: tc, Binding: b, Overrides: row.Overrides})
	if err != nil {
		return s.fail(ctx, outcome, err)
	}

	outcome.Item = res.Item.Name
	outcome.Status = RowSkipped
	if res.Created {
		outcome.Status = RowCreated
	}
	return outcome
}

func (s *Service) fail(ctx context.Context, outcome RowOutcome, err error) RowOutcome {
	outcome.Status = RowFailed
	outcome.Error = err.Error()
	if appErr, ok := apperror.AsAppError(err); ok {
		outcome.Error = appErr.Message
	}

	if s.sink != nil {
		s.sink.LogError(ctx, SinkTitleTool, fmt.Sprintf(
			"row %d template %s (%s): %+v", outcome.Row, outcome.Template, outcome.Summary, err))
	}
	logger.Warn(ctx, "variant row failed", "error", err)
	return outcome
}
