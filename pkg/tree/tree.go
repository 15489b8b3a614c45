// Package tree describes the three-level hierarchy stored by grove:
// categories own topics, topics own notes.
package tree

import "github.com/aretw0/grove/pkg/core"

// Collection names.
const (
	CategoriesCollection = "categories"
	TopicsCollection     = "topics"
	NotesCollection      = "notes"
)

// Field keys.
const (
	FieldName     = "name"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldImageURL = "imageUrl"
)

// Category is a top-level grouping of topics.
type Category struct {
	Name string `json:"name"`
}

// Topic groups notes inside a category.
type Topic struct {
	Name string `json:"name"`
}

// Note is a titled text with an optional image. An empty ImageURL means no image.
type Note struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// Categories is the path of the root collection.
func Categories() core.Path {
	return core.Path(CategoriesCollection)
}

// Topics is the path of the topics owned by a category.
func Topics(categoryID string) core.Path {
	return Categories().Child(categoryID, TopicsCollection)
}

// Notes is the path of the notes owned by a topic.
func Notes(categoryID, topicID string) core.Path {
	return Topics(categoryID).Child(topicID, NotesCollection)
}

var children = map[string][]string{
	CategoriesCollection: {TopicsCollection},
	TopicsCollection:     {NotesCollection},
}

// ChildCollections lists the sub-collections a document of coll may own.
func ChildCollections(coll core.Path) []string {
	return children[coll.Collection()]
}
