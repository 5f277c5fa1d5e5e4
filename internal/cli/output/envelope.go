package output

import "time"

const (
	APIVersionV1 = "v1"
	AppName      = "finance-dashboard"
)

// Envelope is the contract every command prints, in both formats.
type Envelope struct {
	Ok       bool             `json:"ok"`
	Data     any              `json:"data"`
	Warnings []WarningPayload `json:"warnings"`
	Error    *ErrorPayload    `json:"error"`
	Meta     Meta             `json:"meta"`
}

type WarningPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type Meta struct {
	APIVersion   string `json:"api_version"`
	App          string `json:"app"`
	TimestampUTC string `json:"timestamp_utc"`
}

var metaClock = time.Now

func NewSuccessEnvelope(data any, warnings []WarningPayload) Envelope {
	envelope := newEnvelope(warnings)
	envelope.Ok = true
	envelope.Data = data
	return envelope
}

func NewErrorEnvelope(code, message string, details any, warnings []WarningPayload) Envelope {
	envelope := newEnvelope(warnings)
	envelope.Error = &ErrorPayload{Code: code, Message: message, Details: details}
	return envelope
}

func (e Envelope) status() string {
	if e.Ok {
		return "OK"
	}
	return "ERROR"
}

func newEnvelope(warnings []WarningPayload) Envelope {
	if warnings == nil {
		warnings = []WarningPayload{}
	}
	return Envelope{
		Warnings: warnings,
		Meta: Meta{
			APIVersion:   APIVersionV1,
			App:          AppName,
			TimestampUTC: metaClock().UTC().Format(time.RFC3339Nano),
		},
	}
}
