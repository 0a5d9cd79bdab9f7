package ui

import (
	"github.com/Dicklesworthstone/museum/pkg/model"
)

// PostItem wraps model.Post to implement list.Item
type PostItem struct {
	Post model.Post
}

func (i PostItem) Title() string {
	return i.Post.Title
}

func (i PostItem) Description() string {
	return i.Post.Category + " • " + i.Post.Subcategory
}

func (i PostItem) FilterValue() string {
	return i.Post.Title + " " + i.Post.Excerpt + " " + i.Post.Subcategory
}
