package models

// Item represents one product tracked on the shopping list.
// The JSON field names are the persisted wire names of the items blob.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// AisleID references an aisle by exact name. Dangling references are
	// tolerated and render in no aisle group.
	AisleID string `json:"aisleId" yaml:"aisle"`
	// Quantity is 0 exactly when the item is not needed.
	Quantity int  `json:"quantity" yaml:"quantity"`
	Needed   bool `json:"needed" yaml:"needed"`
	InCart   bool `json:"inCart" yaml:"in_cart"`
}

// Items maps item identifiers to item records.
type Items map[string]Item

// Clone returns a shallow copy of the mapping. Item is a value type, so the
// copy shares nothing with the receiver.
func (i Items) Clone() Items {
	out := make(Items, len(i))
	for id, item := range i {
		out[id] = item
	}
	return out
}

// Aisles is the ordered list of aisle names. Order is insertion order.
type Aisles []string

// Clone returns a copy of the list.
func (a Aisles) Clone() Aisles {
	if a == nil {
		return Aisles{}
	}
	out := make(Aisles, len(a))
	copy(out, a)
	return out
}

// Progress counts needed items and how many of them are already in the cart.
type Progress struct {
	Needed int `json:"needed" yaml:"needed"`
	InCart int `json:"inCart" yaml:"in_cart"`
}

// Completion counts checked items against the needed total within one aisle.
type Completion struct {
	Checked int `json:"checked" yaml:"checked"`
	Total   int `json:"total" yaml:"total"`
}
