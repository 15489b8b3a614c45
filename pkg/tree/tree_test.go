package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, core.Path("categories"), tree.Categories())
	assert.Equal(t, core.Path("categories/c1/topics"), tree.Topics("c1"))
	assert.Equal(t, core.Path("categories/c1/topics/t1/notes"), tree.Notes("c1", "t1"))

	for _, p := range []core.Path{tree.Categories(), tree.Topics("c1"), tree.Notes("c1", "t1")} {
		assert.NoError(t, p.Validate())
	}
}

func TestChildCollections(t *testing.T) {
	assert.Equal(t, []string{"topics"}, tree.ChildCollections(tree.Categories()))
	assert.Equal(t, []string{"notes"}, tree.ChildCollections(tree.Topics("c1")))
	assert.Empty(t, tree.ChildCollections(tree.Notes("c1", "t1")))
}

func TestRequired(t *testing.T) {
	got, err := tree.Required(tree.FieldName, "  Work \n")
	require.NoError(t, err)
	assert.Equal(t, "Work", got)

	_, err = tree.Required(tree.FieldName, " \t\n")
	var verr *tree.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, tree.FieldName, verr.Field)
	assert.True(t, tree.IsValidation(err))
	assert.EqualError(t, err, "name must not be empty")
}

func TestNormalize(t *testing.T) {
	notes := tree.Notes("c1", "t1")

	t.Run("create trims names and keeps content", func(t *testing.T) {
		got, err := tree.Normalize(tree.Categories(), core.Fields{tree.FieldName: "  Work "}, false)
		require.NoError(t, err)
		assert.Equal(t, core.Fields{tree.FieldName: "Work"}, got)

		got, err = tree.Normalize(notes, core.Fields{tree.FieldTitle: " Q1 ", tree.FieldContent: " a\nb "}, false)
		require.NoError(t, err)
		assert.Equal(t, "Q1", got.String(tree.FieldTitle))
		assert.Equal(t, " a\nb ", got.String(tree.FieldContent))
	})

	t.Run("create needs every required field", func(t *testing.T) {
		_, err := tree.Normalize(tree.Topics("c1"), core.Fields{"other": "x"}, false)
		assert.True(t, tree.IsValidation(err))

		_, err = tree.Normalize(notes, core.Fields{tree.FieldTitle: "Q1", tree.FieldContent: "   "}, false)
		var verr *tree.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tree.FieldContent, verr.Field)
	})

	t.Run("partial only checks fields it sets", func(t *testing.T) {
		got, err := tree.Normalize(notes, core.Fields{tree.FieldImageURL: "file:///x"}, true)
		require.NoError(t, err)
		assert.Equal(t, core.Fields{tree.FieldImageURL: "file:///x"}, got)

		_, err = tree.Normalize(tree.Categories(), core.Fields{tree.FieldName: "   "}, true)
		assert.True(t, tree.IsValidation(err))
	})

	t.Run("non text value is rejected", func(t *testing.T) {
		_, err := tree.Normalize(tree.Categories(), core.Fields{tree.FieldName: 42}, false)
		assert.True(t, tree.IsValidation(err))
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := core.Fields{tree.FieldName: " Work "}
		_, err := tree.Normalize(tree.Categories(), in, false)
		require.NoError(t, err)
		assert.Equal(t, " Work ", in.String(tree.FieldName))
	})
}
