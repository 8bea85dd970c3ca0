package models

// Snapshot is an immutable copy of the whole shopping state, handed to the
// presentation layer and to the persistence effect after every mutation.
type Snapshot struct {
	Aisles Aisles `json:"aisles" yaml:"aisles"`
	Items  Items  `json:"items" yaml:"items"`
}

// NewSnapshot copies aisles and items into a snapshot.
func NewSnapshot(aisles Aisles, items Items) Snapshot {
	if items == nil {
		items = Items{}
	}
	return Snapshot{Aisles: aisles.Clone(), Items: items.Clone()}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Aisles, s.Items)
}
