package structs

// Category is a node of the category forest in its flat, persisted form.
// Order is only meaningful among siblings sharing the same ParentID.
type Category struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	ParentID *ID    `json:"parentId"`
	Order    int    `json:"order"`
}

// IsRoot reports whether the category has no parent
func (c Category) IsRoot() bool {
	return c.ParentID == nil || c.ParentID.IsZero()
}

// Parent returns the parent id, empty for roots
func (c Category) Parent() ID {
	if c.IsRoot() {
		return ""
	}
	return *c.ParentID
}

// LegacyCategory covers both persisted category shapes: the old grouped one
// (top level categories with embedded Items) and the flat parent/order one.
type LegacyCategory struct {
	ID       ID                   `json:"id"`
	Name     string               `json:"name"`
	ParentID *ID                  `json:"parentId"`
	Order    *LooseInt            `json:"order"`
	Items    []LegacyCategoryItem `json:"items"`
}

// UnmarshalJSON keeps the record when single fields are malformed
func (c *LegacyCategory) UnmarshalJSON(data []byte) error {
	type plain LegacyCategory
	return decodeLenient(data, (*plain)(c))
}

// LegacyCategoryItem is a sub-category embedded in an old grouped category
type LegacyCategoryItem struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// CategoryNode is a category with its ordered children attached
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryPath is a pre-order entry of the category forest, used by pickers
type CategoryPath struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID *ID    `json:"parentId"`
}

type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type MoveCategoryRequest struct {
	ParentID *ID `json:"parentId"`
}
