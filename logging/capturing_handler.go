package logging

import (
	"context"
	"log/slog"
)

// componentKey is the attribute components identify themselves with.
const componentKey = "component"

// CapturingHandler passes records to an underlying handler and copies every
// record the underlying handler accepts into a LogCollector.
type CapturingHandler struct {
	underlying slog.Handler
	collector  *LogCollector
	attrs      []groupedAttr
	groups     []string
}

// groupedAttr is an attribute together with the groups open when it was
// added.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewCapturingHandler creates a CapturingHandler.
func NewCapturingHandler(underlying slog.Handler, collector *LogCollector) *CapturingHandler {
	return &CapturingHandler{
		underlying: underlying,
		collector:  collector,
	}
}

// Enabled defers to the underlying handler so the collector sees the same
// records as the log output.
func (h *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.underlying.Enabled(ctx, level)
}

// Handle records r and passes it on.
func (h *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := LogEntry{
		Time:       r.Time,
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: make(map[string]any, r.NumAttrs()+len(h.attrs)),
	}

	add := func(groups []string, a slog.Attr) {
		if a.Key == componentKey && len(groups) == 0 {
			entry.Component = a.Value.String()
			return
		}
		store(entry.Attributes, groups, a)
	}
	for _, ga := range h.attrs {
		add(ga.groups, ga.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(h.groups, a)
		return true
	})

	if len(entry.Attributes) == 0 {
		entry.Attributes = nil
	}
	h.collector.Add(entry)

	return h.underlying.Handle(ctx, r)
}

// store puts a under the group path in attrs.
func store(attrs map[string]any, groups []string, a slog.Attr) {
	target := attrs
	for _, g := range groups {
		next, ok := target[g].(map[string]any)
		if !ok {
			next = make(map[string]any)
			target[g] = next
		}
		target = next
	}
	target[a.Key] = resolveValue(a.Value)
}

// WithAttrs returns a CapturingHandler so capturing survives logger.With.
func (h *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	grouped := make([]groupedAttr, 0, len(h.attrs)+len(attrs))
	grouped = append(grouped, h.attrs...)
	for _, a := range attrs {
		grouped = append(grouped, groupedAttr{groups: h.groups, attr: a})
	}

	return &CapturingHandler{
		underlying: h.underlying.WithAttrs(attrs),
		collector:  h.collector,
		attrs:      grouped,
		groups:     h.groups,
	}
}

// WithGroup returns a CapturingHandler so capturing survives logger.WithGroup.
func (h *CapturingHandler) WithGroup(name string) slog.Handler {
	return &CapturingHandler{
		underlying: h.underlying.WithGroup(name),
		collector:  h.collector,
		attrs:      h.attrs,
		groups:     append(append([]string{}, h.groups...), name),
	}
}

// resolveValue converts a slog.Value to something encoding/json can write.
func resolveValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	case slog.KindGroup:
		group := make(map[string]any)
		for _, a := range v.Group() {
			group[a.Key] = resolveValue(a.Value)
		}
		return group
	default:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
}
