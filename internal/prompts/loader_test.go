package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("verify.json", "cross-check")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "box_2d")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("verify.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "先頭の {{.ReferenceCount}} 枚が根拠資料、続く {{.TargetCount}} 枚が対象です。"
	data := map[string]string{
		"ReferenceCount": "3",
		"TargetCount":    "5",
	}

	result := Format(template, data)
	assert.Equal(t, "先頭の 3 枚が根拠資料、続く 5 枚が対象です。", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestCrossCheck_SubstitutesCounts(t *testing.T) {
	prompt := CrossCheck(2, 7)
	assert.Contains(t, prompt, "先頭の 2 枚")
	assert.Contains(t, prompt, "続く 7 枚")
	assert.NotContains(t, prompt, "{{.")
}

func TestFormCheck_SubstitutesCount(t *testing.T) {
	prompt := FormCheck(4)
	assert.Contains(t, prompt, "4 枚")
	assert.NotContains(t, prompt, "{{.")
}

func TestCaching(t *testing.T) {
	prompt1, err := Get("formcheck.json", "form-check")
	require.NoError(t, err)

	prompt2, err := Get("formcheck.json", "form-check")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
