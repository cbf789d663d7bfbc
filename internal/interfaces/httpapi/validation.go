package httpapi

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Reserved field error messages that change the response status.
const (
	msgServerError = "server error"
	msgNotFound    = "not found"
)

// FieldError is one failed rule for one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type fieldErrors []FieldError

func (e *fieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// status is 500 when any message is msgServerError, else 404 when any is
// msgNotFound, else 400.
func (e fieldErrors) status() int {
	status := http.StatusBadRequest
	for _, item := range e {
		switch item.Message {
		case msgServerError:
			return http.StatusInternalServerError
		case msgNotFound:
			status = http.StatusNotFound
		}
	}
	return status
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// collectFieldErrors runs the struct tags of payload and reports each failing
// field once, with the message registered for it.
func (h *Handler) collectFieldErrors(ctx context.Context, payload any, messages map[string]string) fieldErrors {
	ctx, span := startSpan(ctx, "httpapi.Handler.collectFieldErrors")
	defer span.End()

	var out fieldErrors
	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.add("", msgServerError)
		return out
	}

	seen := make(map[string]struct{}, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}

		message, ok := messages[field]
		if !ok {
			message = fmt.Sprintf("%s failed %s", field, fe.Tag())
		}
		out.add(field, message)
	}
	return out
}

var xssPolicy = bluemonday.StrictPolicy()

// stripMarkup removes every tag. bluemonday entity-encodes the text it keeps,
// so that is undone here and left to escapeText.
func stripMarkup(v string) string {
	return html.UnescapeString(xssPolicy.Sanitize(v))
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// escapeText trims and HTML-escapes v.
func escapeText(v string) string {
	return textEscaper.Replace(strings.TrimSpace(v))
}

// sanitizeText strips markup then trims.
func sanitizeText(v string) string {
	return strings.TrimSpace(stripMarkup(v))
}

// formValue is a JSON string or number. HTML forms post ids and scores as
// strings while API clients send numbers.
type formValue struct {
	raw string
	set bool
}

func (v *formValue) UnmarshalJSON(data []byte) error {
	var decoded any
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}

	switch value := decoded.(type) {
	case nil:
		*v = formValue{}
	case string:
		*v = formValue{raw: value, set: true}
	case float64:
		*v = formValue{raw: strconv.FormatFloat(value, 'f', -1, 64), set: true}
	default:
		return fmt.Errorf("expected string or number, got %T", decoded)
	}
	return nil
}

func (v formValue) String() string {
	return v.raw
}
