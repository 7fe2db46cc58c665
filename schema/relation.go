package schema

import "reflect"

// RelationMeta describes a many-to-many collection declared on a slice
// field through a join table.
type RelationMeta struct {
	Name       string // Go field name of the slice slot
	Index      []int
	SliceType  reflect.Type // the slice type itself
	Target     reflect.Type // element struct type
	JoinTable  string       // join table name
	ForeignKey string       // join column referencing the owner primary key
	References string       // join column referencing the target primary key
}

// EmptySlice returns a non-nil zero-length slice of the relation's type.
func (r *RelationMeta) EmptySlice() reflect.Value {
	return reflect.MakeSlice(r.SliceType, 0, 0)
}
