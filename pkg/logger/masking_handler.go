package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Attribute keys that carry secrets or customer PII. Phone numbers keep
// their last two digits so different customers stay distinguishable in logs.
var (
	secretKeys = map[string]struct{}{
		"password":      {},
		"token":         {},
		"dsn":           {},
		"secret":        {},
		"authorization": {},
	}
	phoneKeys = map[string]struct{}{
		"phone":   {},
		"contact": {},
	}
)

// MaskingHandler is a slog.Handler decorator that redacts secrets and
// customer phone numbers before the record reaches its output.
type MaskingHandler struct {
	next slog.Handler
}

func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for i := range attrs {
		attrs[i] = maskAttr(attrs[i])
	}
	return &MaskingHandler{next: h.next.WithAttrs(attrs)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(maskAttr(attr))
		return true
	})

	return h.next.Handle(ctx, out)
}

func maskAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(attr.Key)

	if _, ok := secretKeys[key]; ok {
		attr.Value = slog.StringValue("***")
		return attr
	}

	if _, ok := phoneKeys[key]; ok {
		attr.Value = slog.StringValue(maskPhone(attr.Value.String()))
	}

	return attr
}

func maskPhone(s string) string {
	if len(s) <= 2 {
		return "***"
	}
	return "***" + s[len(s)-2:]
}
