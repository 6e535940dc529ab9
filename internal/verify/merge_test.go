package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masato/disclosure-verifier/internal/types"
)

func finding(category string, imageIndex *int) types.Finding {
	return types.Finding{
		Category:   category,
		Status:     types.StatusError,
		Message:    "dummy",
		ImageIndex: imageIndex,
	}
}

func intPtr(n int) *int { return &n }

func TestMergeFindings_GatingFirst(t *testing.T) {
	cross := []types.Finding{
		finding("所在", intPtr(0)),
		finding("添付資料不足", nil),
		finding("地積", intPtr(1)),
		finding("資料不足", nil),
	}
	form := []types.Finding{
		finding("宅地建物取引士", intPtr(3)),
	}

	merged := MergeFindings(cross, form)
	require.Len(t, merged, 5)

	categories := make([]string, 0, len(merged))
	for _, f := range merged {
		categories = append(categories, f.Category)
	}
	assert.Equal(t, []string{"添付資料不足", "資料不足", "宅地建物取引士", "所在", "地積"}, categories)
}

func TestMergeFindings_EmptyInputs(t *testing.T) {
	assert.Empty(t, MergeFindings(nil, nil))

	form := []types.Finding{finding("供託所等", nil)}
	merged := MergeFindings(nil, form)
	require.Len(t, merged, 1)
	assert.Equal(t, "供託所等", merged[0].Category)
}

func TestShiftImageIndexes(t *testing.T) {
	findings := []types.Finding{
		finding("宅地建物取引士", intPtr(0)),
		finding("フォームチェック", nil),
		finding("供託所等", intPtr(2)),
	}

	shiftImageIndexes(findings, 4)

	require.NotNil(t, findings[0].ImageIndex)
	assert.Equal(t, 4, *findings[0].ImageIndex)
	assert.Nil(t, findings[1].ImageIndex)
	require.NotNil(t, findings[2].ImageIndex)
	assert.Equal(t, 6, *findings[2].ImageIndex)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(99).String())
}
