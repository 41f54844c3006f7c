package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseDetail(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		want       string
		structured bool
		wantErr    bool
	}{
		{name: "string detail", body: `{"detail":"Gym not found"}`, want: "Gym not found"},
		{name: "empty body", body: "  "},
		{name: "no detail key", body: `{"message":"x"}`},
		{name: "null detail", body: `{"detail":null}`},
		{
			name:       "list uses first entry",
			body:       `{"detail":[{"loc":["body","email"],"msg":"Field required"},{"loc":["body","name"],"msg":"Field required"}]}`,
			want:       "Field required at body → email",
			structured: true,
		},
		{
			name:       "numeric loc",
			body:       `{"detail":[{"loc":["body","workout_days",0,"day"],"msg":"bad"}]}`,
			want:       "bad at body → workout_days → 0 → day",
			structured: true,
		},
		{
			name:       "empty msg",
			body:       `{"detail":[{"loc":["query","plan"]}]}`,
			want:       "Validation error at query → plan",
			structured: true,
		},
		{name: "no loc", body: `{"detail":[{"msg":"Value error"}]}`, want: "Value error", structured: true},
		{name: "empty list", body: `{"detail":[]}`, structured: true},
		{name: "object detail is kept raw", body: `{"detail":{"code":7}}`, want: `{"code":7}`},
		{name: "html", body: `<html>Bad Gateway</html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, structured, err := parseDetail([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.structured, structured)
		})
	}
}

func Test_errorFromBody(t *testing.T) {
	err := errorFromBody(400, []byte(`{"detail":"Email already registered"}`))
	assert.Equal(t, KindRejected, KindOf(err))
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, "Email already registered", Message(err, ""))

	err = errorFromBody(422, []byte(`{"detail":"bad date"}`))
	assert.Equal(t, KindValidation, KindOf(err))

	err = errorFromBody(400, []byte(`{"detail":[{"loc":["body"],"msg":"Invalid JSON"}]}`))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Invalid JSON at body", Message(err, ""))

	err = errorFromBody(503, nil)
	assert.Equal(t, KindRejected, KindOf(err))
	assert.Equal(t, "fallback", Message(err, "fallback"))
	assert.Equal(t, "request rejected (503): Service Unavailable", err.Error())

	for _, body := range []string{`{}`, `{"detail":null}`, `{"detail":""}`} {
		err = errorFromBody(400, []byte(body))
		assert.Equal(t, KindRejected, KindOf(err), body)
		assert.Empty(t, Message(err, ""), body)
	}

	err = errorFromBody(502, []byte("<html>"))
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.True(t, IsMalformed(err))
}
