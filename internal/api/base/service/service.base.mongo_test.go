package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateDataPassthrough(t *testing.T) {
	original := &UpdateData{Set: map[string]interface{}{"title": "mới"}}

	converted, err := ToUpdateData(original)
	require.NoError(t, err)
	assert.Same(t, original, converted, "UpdateData có sẵn phải được trả về nguyên vẹn")

	byValue, err := ToUpdateData(UpdateData{Set: map[string]interface{}{"x": 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, byValue.Set["x"])
}

func TestToUpdateDataWrapsPlainMap(t *testing.T) {
	converted, err := ToUpdateData(bson.M{"title": "mới", "content": "nội dung"})
	require.NoError(t, err)

	assert.Equal(t, "mới", converted.Set["title"], "map thường phải được wrap trong $set")
	assert.Equal(t, "nội dung", converted.Set["content"])
	assert.Empty(t, converted.Unset)
	assert.Empty(t, converted.Push)
}

func TestToUpdateDataKeepsExplicitOperators(t *testing.T) {
	converted, err := ToUpdateData(bson.M{
		"$set":   bson.M{"title": "mới"},
		"$unset": bson.M{"summary": ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "mới", converted.Set["title"])
	_, hasSummary := converted.Unset["summary"]
	assert.True(t, hasSummary, "operator $unset có sẵn phải được giữ lại")
}

func TestToUpdateDataFromStruct(t *testing.T) {
	type patch struct {
		Title    string `bson:"title"`
		Category string `bson:"category"`
	}

	converted, err := ToUpdateData(patch{Title: "đổi tên", Category: "work"})
	require.NoError(t, err)

	assert.Equal(t, "đổi tên", converted.Set["title"])
	assert.Equal(t, "work", converted.Set["category"])
}
