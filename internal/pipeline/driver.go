package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"scdproc/internal/logging"
	"scdproc/internal/scd"
	"scdproc/internal/services"
)

// Driver runs the filter-and-classify pass. A Driver may be reused for
// several sequential runs but is not safe for concurrent use.
type Driver struct {
	opts   Options
	logger *slog.Logger
	state  State
}

// New validates opts and returns a Driver in StateInit.
func New(opts Options) (*Driver, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	return &Driver{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
		state:  StateInit,
	}, nil
}

// State returns the phase the most recent run reached.
func (d *Driver) State() State { return d.state }

// Run reads input, filters and classifies every record, and appends the
// survivors to output. On error the output is rolled back to its last
// complete record and the returned Summary holds the counters reached.
func (d *Driver) Run(ctx context.Context, input, output string) (summary Summary, err error) {
	started := time.Now()
	runID := strings.TrimSpace(d.opts.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, d.logger)

	summary = Summary{RunID: runID, Input: input}
	d.state = StateInit
	defer func() {
		summary.Duration = time.Since(started)
		if err != nil {
			d.transition(logger, StateFailed, logging.Error(err), logging.String(logging.FieldStage, services.StageOf(err)))
		}
	}()

	d.transition(logger, StateOpenIO,
		logging.String("input", input),
		logging.String("output", output),
	)
	reader, err := scd.Open(input, d.opts.Reader)
	if err != nil {
		return summary, err
	}
	defer reader.Close()

	wopts := d.opts.Writer
	if wopts.Now.IsZero() {
		wopts.Now = d.opts.Clock()
	}
	writer, err := scd.Create(output, wopts)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err == nil {
			return
		}
		if abortErr := writer.Abort(); abortErr != nil {
			logging.WarnWithContext(logger, "output rollback failed", "output_abort_failed",
				logging.String(logging.FieldPath, writer.Path()),
				logging.Error(abortErr),
				logging.String(logging.FieldErrorHint, "inspect the output file for a partial record"),
				logging.String(logging.FieldImpact, "output may end with an incomplete record"),
			)
		}
	}()
	summary.Output = writer.Path()

	now := d.opts.Clock()
	summary.Now = now
	d.transition(logger, StateStreaming,
		logging.Time("now", now),
		logging.String(logging.FieldPath, writer.Path()),
	)

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, services.Wrap(services.ErrIO, services.StageWrite, "stream records", "run cancelled", ctxErr)
		}
		rec, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return summary, tagParse(nextErr)
		}
		if err := d.process(logger, rec, now, writer, &summary); err != nil {
			return summary, err
		}
	}

	if err := writer.Close(); err != nil {
		return summary, err
	}
	d.transition(logger, StateFinalized,
		logging.Int("total", summary.Total),
		logging.Int("accepted", summary.Accepted),
		logging.Int("dropped", summary.Dropped()),
	)
	return summary, nil
}

// process applies the expiry filter and classification to one record.
func (d *Driver) process(logger *slog.Logger, rec *scd.Record, now time.Time, writer *scd.Writer, summary *Summary) error {
	summary.Total++
	docID := rec.Value(d.opts.Reader.BoundaryKey)

	raw := strings.TrimSpace(rec.Value(d.opts.Fields.TimeEnd))
	if raw == "" {
		summary.DroppedNoExpiry++
		logger.Debug("record dropped",
			logging.String(logging.FieldDocID, docID),
			logging.String("reason", "no_expiry"),
		)
		return nil
	}

	expires, err := time.ParseInLocation(TimeEndLayout, raw, d.opts.Location)
	if err != nil {
		if d.opts.InvalidTime == InvalidTimeSkip {
			summary.SkippedInvalid++
			logging.WarnWithContext(logger, "record skipped", "invalid_time_end",
				logging.String(logging.FieldDocID, docID),
				logging.String("value", raw),
				logging.String(logging.FieldErrorHint, "expected "+d.opts.Fields.TimeEnd+" as YYYYMMDDHHMMSS"),
				logging.String(logging.FieldImpact, "record not written"),
			)
			return nil
		}
		return services.Wrap(services.ErrFormat, services.StageParse, "parse "+d.opts.Fields.TimeEnd,
			fmt.Sprintf("record %q: value %q is not YYYYMMDDHHMMSS", docID, raw), err)
	}
	if expires.Before(now) {
		summary.DroppedExpired++
		logger.Debug("record dropped",
			logging.String(logging.FieldDocID, docID),
			logging.String("reason", "expired"),
			logging.Time("time_end", expires),
		)
		return nil
	}

	label, ok := d.opts.Classifier.Classify(rec.Value(d.opts.Fields.Title))
	if !ok {
		label = ""
		summary.Unclassified++
	}
	rec.Set(d.opts.Fields.Category, label)

	if err := writer.Append(rec); err != nil {
		return err
	}
	summary.Accepted++
	return nil
}

func (d *Driver) transition(logger *slog.Logger, to State, attrs ...logging.Attr) {
	from := d.state
	d.state = to
	attrs = append([]logging.Attr{
		logging.String(logging.FieldEventType, "state_transition"),
		logging.String("from", from.String()),
		logging.String("to", to.String()),
	}, attrs...)
	if to == StateFailed {
		attrs = append(attrs,
			logging.String(logging.FieldErrorHint, "see the error for the failing record; the output file was rolled back"),
		)
		logging.ErrorWithContext(logger, "pipeline state", "state_transition", attrs...)
	} else {
		logger.Info("pipeline state", logging.Args(attrs...)...)
	}
	if d.opts.OnTransition != nil {
		d.opts.OnTransition(from, to)
	}
}

// tagParse attaches the parse stage to reader errors that do not carry one.
func tagParse(err error) error {
	if services.StageOf(err) != "" {
		return err
	}
	var formatErr *scd.FormatError
	if errors.As(err, &formatErr) {
		return services.Wrap(services.ErrFormat, services.StageParse, "read record", "", err)
	}
	return services.Wrap(services.ErrResource, services.StageParse, "read record", "", err)
}
