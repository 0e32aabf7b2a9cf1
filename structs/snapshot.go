package structs

// DefaultTheme is the theme of a fresh store
const DefaultTheme = "dark"

// User is an admin-managed user entry
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Snapshot is the whole persisted application state, written as one blob
type Snapshot struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Settings   Settings   `json:"settings"`
	Users      []User     `json:"users"`
	Visits     int        `json:"visits"`
	Theme      string     `json:"theme"`
	Orders     []Order    `json:"orders"`
	Seq        Sequences  `json:"seq"`
}

// Sequences records the highest id ever issued per collection, so that
// deleting the newest record never frees its id for reuse.
type Sequences struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Orders     int64 `json:"orders"`
	Users      int64 `json:"users"`
}

// NewSnapshot returns a snapshot with every field set to its default
func NewSnapshot() Snapshot {
	return Snapshot{
		Products:   []Product{},
		Categories: []Category{},
		Settings:   DefaultSettings(),
		Users:      []User{},
		Theme:      DefaultTheme,
		Orders:     []Order{},
	}
}

// FindProduct returns the product with the given id
func (s *Snapshot) FindProduct(id int64) (*Product, bool) {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i], true
		}
	}
	return nil, false
}

// FindOrder returns the order with the given id
func (s *Snapshot) FindOrder(id int64) (*Order, bool) {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i], true
		}
	}
	return nil, false
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}
