package backend

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the normalized shape of every backend response. The backend is
// inconsistent about how it reports status ("status" or "code") and where it
// puts the payload ("data" or top-level), so all of that is resolved here and
// nowhere else.
type Envelope struct {
	Status  int
	Message string
	Data    json.RawMessage
	// Raw is the whole response body, for callers that need fields living
	// outside the data object.
	Raw json.RawMessage
}

func (e Envelope) OK() bool {
	return e.Status == 200
}

// Bind unmarshals the envelope payload into out.
func (e Envelope) Bind(out interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no payload")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("failed unmarshaling envelope payload with error=%w", err)
	}
	return nil
}

func DecodeEnvelope(r io.Reader) (Envelope, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed reading response body with error=%w", err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, fmt.Errorf("failed unmarshaling response body with error=%w", err)
	}

	envelope := Envelope{Raw: body}
	if status, ok := intField(raw, "status"); ok {
		envelope.Status = status
	} else if code, ok := intField(raw, "code"); ok {
		envelope.Status = code
	}

	if message, ok := raw["message"]; ok {
		_ = json.Unmarshal(message, &envelope.Message)
	}

	if data, ok := raw["data"]; ok && string(data) != "null" {
		envelope.Data = data
	} else {
		envelope.Data = body
	}
	return envelope, nil
}

func intField(raw map[string]json.RawMessage, key string) (int, bool) {
	v, ok := raw[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	return n, true
}
