package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// ParseFormat returns the canonical output format for value.
func ParseFormat(value string) (string, bool) {
	switch format := strings.ToLower(strings.TrimSpace(value)); format {
	case FormatHuman, FormatJSON:
		return format, true
	default:
		return "", false
	}
}

// Print records the envelope's exit code and writes it in format.
func Print(w io.Writer, format string, envelope Envelope) error {
	SetProcessExitCodeFromEnvelope(envelope)

	canonical, ok := ParseFormat(format)
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	var rendered string
	var err error
	if canonical == FormatJSON {
		rendered, err = renderJSON(envelope)
	} else {
		rendered, err = renderHuman(envelope, DisplayLocation())
	}
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, rendered); err != nil {
		return fmt.Errorf("write %s output: %w", canonical, err)
	}
	return nil
}

func renderJSON(envelope Envelope) (string, error) {
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json envelope: %w", err)
	}
	return string(payload) + "\n", nil
}

func renderHuman(envelope Envelope, location *time.Location) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s\n", envelope.status(), envelope.Meta.App)
	if envelope.Error != nil {
		fmt.Fprintf(&b, "%s: %s\n", envelope.Error.Code, envelope.Error.Message)
	}
	for _, warning := range envelope.Warnings {
		fmt.Fprintf(&b, "warning[%s]: %s\n", warning.Code, warning.Message)
	}

	if envelope.Data != nil {
		payload, err := json.MarshalIndent(localizeTimestamps(envelope.Data, location), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal human data: %w", err)
		}
		b.Write(payload)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "api=%s timestamp_utc=%s\n", envelope.Meta.APIVersion, envelope.Meta.TimestampUTC)
	return b.String(), nil
}

// localizeTimestamps re-renders RFC3339 values under timestamp keys in
// location. Data that does not survive a JSON round trip is returned as is.
func localizeTimestamps(data any, location *time.Location) any {
	if location == nil || location == time.UTC {
		return data
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return data
	}

	return localizeNode(tree, "", location)
}

func localizeNode(node any, key string, location *time.Location) any {
	switch value := node.(type) {
	case map[string]any:
		for childKey, child := range value {
			value[childKey] = localizeNode(child, childKey, location)
		}
		return value
	case []any:
		for index, item := range value {
			value[index] = localizeNode(item, key, location)
		}
		return value
	case string:
		if !isTimestampKey(key) {
			return value
		}
		parsed, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return value
		}
		return parsed.In(location).Format(time.RFC3339Nano)
	default:
		return node
	}
}

// isTimestampKey matches snake_case *_utc keys and camelCase *At keys such as
// createdAt and exportedAt.
func isTimestampKey(key string) bool {
	key = strings.TrimSpace(key)
	if strings.HasSuffix(strings.ToLower(key), "_utc") {
		return true
	}
	return len(key) > 2 && strings.HasSuffix(key, "At")
}
