package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-manager/internal/model"
)

func ptr(v int64) *int64 { return &v }

func sample() []model.Task {
	return []model.Task{
		{ID: "b", Text: "Walk dog", Priority: model.PriorityLow, CreatedAt: 2000},
		{ID: "a", Text: "Buy milk", Priority: model.PriorityHigh, Completed: true, CreatedAt: 1000, CompletedAt: ptr(3000)},
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		["b", {"id":"b","text":"Walk dog","priority":"low","completed":false,"createdAt":2000}],
		["a", {"id":"a","text":"Buy milk","priority":"high","completed":true,"createdAt":1000,"completedAt":3000}]
	]`, string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestRoundTrip(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "export then import is idempotent")
}

func TestDecode(t *testing.T) {
	t.Run("bare objects", func(t *testing.T) {
		got, err := Decode([]byte(`[{"id":"x","text":"t","priority":"medium","completed":false,"createdAt":5}]`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "x", got[0].ID)
	})

	t.Run("empty document", func(t *testing.T) {
		got, err := Decode([]byte("  "))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("import rejects non-array documents", func(t *testing.T) {
		for _, doc := range []string{"", "  \n", "null", `{"id":"a"}`, `"tasks"`} {
			_, err := DecodeImport([]byte(doc))
			var serr *SerializationError
			require.ErrorAs(t, err, &serr, "doc %q", doc)
			assert.Equal(t, -1, serr.Index)
		}

		got, err := DecodeImport([]byte(" []\n"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("duplicate ids keep first position", func(t *testing.T) {
		got, err := Decode([]byte(`[
			["a", {"id":"a","text":"first","priority":"low","createdAt":1}],
			["b", {"id":"b","text":"b","priority":"low","createdAt":2}],
			["a", {"id":"a","text":"second","priority":"low","createdAt":1}]
		]`))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "second", got[0].Text)
	})

	t.Run("normalises completion", func(t *testing.T) {
		got, err := Decode([]byte(`[
			["a", {"id":"a","text":"a","createdAt":7,"completed":true}],
			["b", {"id":"b","text":"b","createdAt":8,"completed":false,"completedAt":9}]
		]`))
		require.NoError(t, err)
		assert.Equal(t, model.PriorityMedium, got[0].Priority)
		require.NotNil(t, got[0].CompletedAt)
		assert.Equal(t, int64(7), *got[0].CompletedAt)
		assert.Nil(t, got[1].CompletedAt)
	})

	t.Run("pair key fills missing id", func(t *testing.T) {
		got, err := Decode([]byte(`[["k", {"text":"t","priority":"low","createdAt":1}]]`))
		require.NoError(t, err)
		assert.Equal(t, "k", got[0].ID)
	})

	bad := map[string]string{
		"not json":       `{nope`,
		"not an array":   `{"id":"a"}`,
		"scalar element": `[42]`,
		"short pair":     `[["a"]]`,
		"key mismatch":   `[["a", {"id":"b","text":"t","priority":"low"}]]`,
		"empty text":     `[["a", {"id":"a","text":"  ","priority":"low"}]]`,
		"bad priority":   `[["a", {"id":"a","text":"t","priority":"urgent"}]]`,
		"missing id":     `[{"text":"t","priority":"low"}]`,
		"wrong types":    `[["a", {"id":"a","text":1}]]`,
	}
	for name, input := range bad {
		t.Run(name, func(t *testing.T) {
			got, err := Decode([]byte(input))
			assert.Nil(t, got)
			var serr *SerializationError
			require.ErrorAs(t, err, &serr)
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}
}
