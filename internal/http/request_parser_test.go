package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{name: "number amount", body: `{"amount": 12.5}`, want: "12.5"},
		{name: "string amount", body: `{"amount": "0.25"}`, want: "0.25"},
		{name: "unknown fields ignored", body: `{"amount": 1, "note": "x"}`, want: "1"},
		{name: "missing amount", body: `{}`, want: ""},
		{name: "empty body", body: ``, wantErr: true},
		{name: "not json", body: `amount=5`, wantErr: true},
		{name: "two values", body: `{"amount":1}{"amount":2}`, wantErr: true},
		{name: "wrong type", body: `{"amount": true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req ContributeRequest
			err := decodeJSON(httptest.NewRecorder(), r, &req)
			if tt.wantErr {
				require.ErrorIs(t, err, errMalformedBody)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.False(t, req.Amount.Valid)
			} else {
				assert.Equal(t, tt.want, req.Amount.Decimal.String())
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	body := `{"amount": 1, "pad": "` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var req ContributeRequest
	assert.Error(t, decodeJSON(httptest.NewRecorder(), r, &req))
}

func TestParseIDParam(t *testing.T) {
	cases := map[string]struct {
		id int64
		ok bool
	}{
		"7":   {7, true},
		"abc": {0, false},
		"1.5": {0, false},
		"0":   {0, false},
		"-3":  {0, false},
		"":    {0, false},
	}
	for value, want := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.SetPathValue("id", value)
		id, ok := parseIDParam(r, "id")
		assert.Equal(t, want.ok, ok, value)
		assert.Equal(t, want.id, id, value)
	}
}
