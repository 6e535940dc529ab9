package parsing

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masato/disclosure-verifier/internal/types"
)

const wellFormed = `[
  {"category": "所在・地番", "status": "error", "item": "地番", "evidence": "登記簿: 123番4", "target": "重説: 128番4", "message": "地番の数値が一致していません。", "box_2d": [450, 120, 480, 300], "image_index": 0},
  {"category": "所有者", "status": "warning", "item": "住所", "evidence": "登記簿: １丁目５番地", "target": "重説: 1丁目5番地", "message": "全角・半角の表記が異なります。", "box_2d": null, "image_index": null},
  {"category": "法令上の制限", "status": "suggestion", "item": "指定建蔽率", "evidence": "重説: 0%", "target": "重説: 0%", "message": "指定建蔽率が0%と記載されています。", "box_2d": [320, 80, 360, 350], "image_index": 2}
]`

func TestParseFindings_WellFormed(t *testing.T) {
	findings, err := ParseFindings(wellFormed)
	require.NoError(t, err)
	require.Len(t, findings, 3)
	assert.Equal(t, "所在・地番", findings[0].Category)
	assert.Equal(t, types.StatusError, findings[0].Status)
	assert.Equal(t, []float64{450, 120, 480, 300}, findings[0].Box)
	require.NotNil(t, findings[0].ImageIndex)
	assert.Equal(t, 0, *findings[0].ImageIndex)
	assert.Nil(t, findings[1].Box)
	assert.Nil(t, findings[1].ImageIndex)
}

func TestParseFindings_RoundTripIdempotence(t *testing.T) {
	first, err := ParseFindings(wellFormed)
	require.NoError(t, err)

	serialized, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := ParseFindings(string(serialized))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseFindings_MarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"json fence", "```json\n" + wellFormed + "\n```"},
		{"bare fence", "```\n" + wellFormed + "\n```"},
		{"inline fence tokens", "```json" + wellFormed + "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := ParseFindings(tt.text)
			require.NoError(t, err)
			assert.Len(t, findings, 3)
		})
	}
}

func TestParseFindings_LeadingCommentary(t *testing.T) {
	text := "以下が照合結果です。\n" + wellFormed
	findings, err := ParseFindings(text)
	require.NoError(t, err)
	assert.Len(t, findings, 3)
}

func TestParseFindings_TrailingComma(t *testing.T) {
	text := `[{"category": "a", "status": "error"}, {"category": "b", "status": "warning"}, ]`
	findings, err := ParseFindings(text)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "b", findings[1].Category)
}

func TestParseFindings_TruncatedAtObjectBoundary(t *testing.T) {
	// Cut immediately after the second object's closing "},".
	cut := strings.Index(wellFormed, `"image_index": null},`) + len(`"image_index": null},`)
	truncated := wellFormed[:cut]

	findings, err := ParseFindings(truncated)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "所在・地番", findings[0].Category)
	assert.Equal(t, "所有者", findings[1].Category)
}

func TestParseFindings_TruncatedMidObject(t *testing.T) {
	// Cut in the middle of the third object: the two complete objects
	// before the cut must survive.
	cut := strings.Index(wellFormed, `"item": "指定建蔽率"`)
	require.Positive(t, cut)
	truncated := wellFormed[:cut]

	findings, err := ParseFindings(truncated)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "所有者", findings[1].Category)
}

func TestParseFindings_SingleElementTruncation(t *testing.T) {
	text := `[{"category": "資料不足", "status": "warning", "message": "公図がありません。"},`
	findings, err := ParseFindings(text)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "資料不足", findings[0].Category)
}

func TestParseFindings_EmptyArray(t *testing.T) {
	findings, err := ParseFindings("[]")
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.NotNil(t, findings)
}

func TestParseFindings_NonArrayTopLevel(t *testing.T) {
	// A top-level JSON value that is not an array means no findings, not a
	// parse failure.
	tests := []struct {
		name string
		text string
	}{
		{"object", `{"message": "指摘事項はありません。"}`},
		{"fenced object", "```json\n{\"status\": \"ok\"}\n```"},
		{"quoted string", `"問題なし"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := ParseFindings(tt.text)
			require.NoError(t, err)
			require.NotNil(t, findings)
			assert.Empty(t, findings)
		})
	}
}

func TestParseFindings_NoArrayAtAll(t *testing.T) {
	raw := "申し訳ありませんが、解析できませんでした。"
	findings, err := ParseFindings(raw)
	assert.Nil(t, findings)

	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, raw, parseErr.Raw)
}

func TestParseFindings_UnrecoverableGarbage(t *testing.T) {
	raw := `[{"category": "a", "status`
	_, err := ParseFindings(raw)

	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, raw, parseErr.Raw)
}

func TestParseFindings_EmptyInput(t *testing.T) {
	_, err := ParseFindings("")
	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
}
