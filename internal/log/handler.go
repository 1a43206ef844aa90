package log

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strconv"
)

// DefaultPrecision is the number of significant digits kept for float
// attributes.
const DefaultPrecision = 6

// RoundingHandler is a slog.Handler that rounds float64 attribute values
// before passing records to the wrapped handler. Group attributes are
// rounded recursively.
type RoundingHandler struct {
	// handler is the underlying slog handler that receives rounded records.
	handler slog.Handler

	// precision is the number of significant digits kept.
	precision int
}

// NewRoundingHandler creates a new RoundingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. A precision below 1
// falls back to DefaultPrecision.
func NewRoundingHandler(handler slog.Handler, precision int) *RoundingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if precision < 1 {
		precision = DefaultPrecision
	}
	return &RoundingHandler{handler: handler, precision: precision}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RoundingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rounds the record's attributes and passes it to the underlying handler.
func (h *RoundingHandler) Handle(ctx context.Context, r slog.Record) error {
	rounded := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rounded.AddAttrs(h.roundAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rounded)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rounded before being added.
func (h *RoundingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	roundedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		roundedAttrs[i] = h.roundAttr(a)
	}
	return &RoundingHandler{handler: h.handler.WithAttrs(roundedAttrs), precision: h.precision}
}

// WithGroup returns a new handler with the given group name.
func (h *RoundingHandler) WithGroup(name string) slog.Handler {
	return &RoundingHandler{handler: h.handler.WithGroup(name), precision: h.precision}
}

// roundAttr rounds a single attribute, recursively handling groups.
func (h *RoundingHandler) roundAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		roundedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			roundedAttrs[i] = h.roundAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(roundedAttrs...)}
	case slog.KindFloat64:
		return slog.Float64(a.Key, roundFloat(a.Value.Float64(), h.precision))
	default:
		return a
	}
}

// roundFloat rounds v to the given number of significant digits.
// NaN and infinities are returned unchanged.
func roundFloat(v float64, precision int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', precision, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// NewLogger creates a new text slog.Logger with rounded float output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	textHandler := slog.NewTextHandler(w, handlerOptions(verbose))
	return slog.New(NewRoundingHandler(textHandler, DefaultPrecision))
}

// NewJSONLogger creates a new slog.Logger that outputs JSON format.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, handlerOptions(verbose))
	return slog.New(NewRoundingHandler(jsonHandler, DefaultPrecision))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
