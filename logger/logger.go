package logger

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/util"
)

// Fields represents structured log fields
type Fields map[string]interface{}

func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %v", msg, formatFields(fields))
	breadcrumb("info", sentry.LevelInfo, msg, fields)
}

// Error logs and, when Sentry is configured, captures err with the
// fields attached as context.
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %v", msg, err, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			if id, ok := fields["session_id"].(string); ok {
				scope.SetTag("session_id", id)
			}
			if source, ok := fields["source"].(string); ok {
				scope.SetTag("source", source)
			}
			hub.CaptureException(err)
		})
	}
}

func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %v", msg, formatFields(fields))
	breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

func Debug(msg string, fields Fields) {
	log.Printf("[DEBUG] %s %v", msg, formatFields(fields))
	breadcrumb("debug", sentry.LevelDebug, msg, fields)
}

// Skipped logs an event an analyzer could not evaluate.
func Skipped(sessionID string, s model.SkippedEvent) {
	Warn("Skipped event", Fields{
		"session_id": sessionID,
		"analyzer":   s.Analyzer,
		"voice":      s.Voice,
		"measure":    s.Measure,
		"reason":     s.Reason,
	})
}

// LogRequest logs one served HTTP request.
func LogRequest(r *http.Request, duration time.Duration, statusCode int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	fields["method"] = r.Method
	fields["path"] = r.URL.Path
	fields["remote_addr"] = r.RemoteAddr

	Info("API request completed", fields)
}

func breadcrumb(kind string, level sentry.Level, msg string, fields Fields) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     convertFieldsToMap(fields),
			Level:    level,
		})
	}
}

// formatFields renders fields as {k=v, ...} with keys in order.
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := util.SortedKeys(fields)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func convertFieldsToMap(fields Fields) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range fields {
		result[k] = v
	}
	return result
}
