package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/grove/pkg/core"
)

func TestPath_Validate(t *testing.T) {
	valid := []core.Path{
		"categories",
		"categories/c1/topics",
		"categories/c1/topics/t1/notes",
	}
	for _, p := range valid {
		assert.NoError(t, p.Validate(), p)
	}

	invalid := []core.Path{
		"",
		"categories/c1",
		"categories//topics",
		"categories/../topics",
		"/categories",
	}
	for _, p := range invalid {
		assert.ErrorIs(t, p.Validate(), core.ErrInvalidPath, p)
	}
}

func TestPath_Navigation(t *testing.T) {
	notes := core.Path("categories").Child("c1", "topics").Child("t1", "notes")
	assert.Equal(t, core.Path("categories/c1/topics/t1/notes"), notes)
	assert.Equal(t, "notes", notes.Collection())
	assert.Equal(t, 3, notes.Depth())
	assert.Equal(t, "categories/c1/topics/t1/notes/n1", notes.DocPath("n1"))

	parent, id, ok := notes.Parent()
	assert.True(t, ok)
	assert.Equal(t, core.Path("categories/c1/topics"), parent)
	assert.Equal(t, "t1", id)

	_, _, ok = core.Path("categories").Parent()
	assert.False(t, ok)
}

func TestFields_MergeKeepsOriginal(t *testing.T) {
	base := core.Fields{"name": "a", "keep": 1}
	merged := base.Merge(core.Fields{"name": "b"})

	assert.Equal(t, "a", base.String("name"))
	assert.Equal(t, "b", merged.String("name"))
	assert.Equal(t, 1, merged["keep"])
}
