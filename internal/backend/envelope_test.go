package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		expectedStatus  int
		expectedMessage string
		expectedData    string
		expectedErr     bool
	}{
		{
			name:           "status keyed response with data payload",
			body:           `{"status":200,"message":"ok","data":{"order_id":"o-1"}}`,
			expectedStatus: 200,
			expectedData:   `{"order_id":"o-1"}`,
		},
		{
			name:           "code keyed response with data payload",
			body:           `{"code":200,"data":{"token":"abc"}}`,
			expectedStatus: 200,
			expectedData:   `{"token":"abc"}`,
		},
		{
			name:           "top level payload without data key",
			body:           `{"status":200,"items":[],"total":0}`,
			expectedStatus: 200,
			expectedData:   `{"status":200,"items":[],"total":0}`,
		},
		{
			name:            "failure response carries message",
			body:            `{"code":500,"message":"out of stock"}`,
			expectedStatus:  500,
			expectedMessage: "out of stock",
		},
		{
			name:           "null data falls back to top level",
			body:           `{"status":200,"data":null}`,
			expectedStatus: 200,
			expectedData:   `{"status":200,"data":null}`,
		},
		{
			name:        "malformed body",
			body:        `<html>gateway timeout</html>`,
			expectedErr: true,
		},
		{
			name:           "string typed status is ignored",
			body:           `{"status":"ok","code":200}`,
			expectedStatus: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := DecodeEnvelope(strings.NewReader(tt.body))
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, envelope.Status)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, envelope.Message)
			}
			if tt.expectedData != "" {
				assert.JSONEq(t, tt.expectedData, string(envelope.Data))
			}
		})
	}
}

func TestEnvelopeBind(t *testing.T) {
	envelope, err := DecodeEnvelope(
		strings.NewReader(`{"code":200,"data":{"suggestions":["shoes","shirt"]}}`),
	)
	assert.NoError(t, err)
	assert.True(t, envelope.OK())

	payload := struct {
		Suggestions []string `json:"suggestions"`
	}{}
	assert.NoError(t, envelope.Bind(&payload))
	assert.Equal(t, []string{"shoes", "shirt"}, payload.Suggestions)
}
