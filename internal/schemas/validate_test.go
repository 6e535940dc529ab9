package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFinding_Valid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "full finding",
			json: `{"category":"所在","status":"error","item":"地番","evidence":"1234番5","target":"1234番6","message":"地番が一致しません。","box_2d":[120,300,160,500],"image_index":3}`,
		},
		{
			name: "null box and index",
			json: `{"category":"添付資料不足","status":"warning","item":"必須添付資料","evidence":"","target":"","message":"公図が不足しています。","box_2d":null,"image_index":null}`,
		},
		{
			name: "box as string",
			json: `{"category":"地積","status":"error","item":"地積","evidence":"100.00m2","target":"101.00m2","message":"地積が一致しません。","box_2d":"[100, 200, 300, 400]","image_index":0}`,
		},
		{
			name: "omitted box and index",
			json: `{"category":"資料不足","status":"warning","item":"所有者","evidence":"","target":"","message":"根拠資料に記載が見つかりません。"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateFinding([]byte(tt.json)))
		})
	}
}

func TestValidateFinding_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "missing category",
			json: `{"status":"error","item":"a","evidence":"b","target":"c","message":"d"}`,
		},
		{
			name: "unknown status",
			json: `{"category":"所在","status":"fatal","item":"a","evidence":"b","target":"c","message":"d"}`,
		},
		{
			name: "empty message",
			json: `{"category":"所在","status":"error","item":"a","evidence":"b","target":"c","message":""}`,
		},
		{
			name: "box with wrong arity",
			json: `{"category":"所在","status":"error","item":"a","evidence":"b","target":"c","message":"d","box_2d":[1,2,3]}`,
		},
		{
			name: "negative image index",
			json: `{"category":"所在","status":"error","item":"a","evidence":"b","target":"c","message":"d","image_index":-1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFinding([]byte(tt.json))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateFinding_NotJSON(t *testing.T) {
	err := ValidateFinding([]byte("not json"))
	assert.Error(t, err)
}
