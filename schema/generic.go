package schema

import (
	"fmt"
	"reflect"
)

// GenericRefMeta describes a polymorphic reference slot: an interface
// field populated from a sibling type-tag field and a sibling nullable
// id field.
type GenericRefMeta struct {
	Name      string // Go field name of the interface slot
	Index     []int
	TypeField *FieldMeta // sibling field holding the type tag (string)
	IDField   *FieldMeta // sibling field holding the target id (pointer or sql.Null*)
}

// ReadPair reads the (type tag, id) pair off an entity. ok is false
// when either side is null, meaning the slot stays empty.
func (g *GenericRefMeta) ReadPair(structVal reflect.Value) (tag string, id any, ok bool) {
	tag = structVal.FieldByIndex(g.TypeField.Index).String()
	if tag == "" {
		return "", nil, false
	}

	id, ok = nullableValue(structVal.FieldByIndex(g.IDField.Index))
	if !ok {
		return "", nil, false
	}
	return tag, id, true
}

// SetSlot stores a resolved object into the interface slot.
func (g *GenericRefMeta) SetSlot(structVal reflect.Value, obj any) {
	slot := structVal.FieldByIndex(g.Index)
	if obj == nil {
		slot.Set(reflect.Zero(slot.Type()))
		return
	}
	slot.Set(reflect.ValueOf(obj))
}

// nullableValue extracts the value of a pointer or sql.Null* field.
// ok is false when the field represents NULL.
func nullableValue(v reflect.Value) (any, bool) {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil, false
		}
		return v.Elem().Interface(), true
	case reflect.Struct:
		valid := v.FieldByName("Valid")
		if valid.IsValid() && valid.Kind() == reflect.Bool {
			if !valid.Bool() {
				return nil, false
			}
			// First exported non-Valid field carries the value
			// (Int64, String, Time and friends).
			t := v.Type()
			for i := 0; i < t.NumField(); i++ {
				if t.Field(i).Name != "Valid" && t.Field(i).IsExported() {
					return v.Field(i).Interface(), true
				}
			}
		}
	}
	return nil, false
}

// validateGenericIDField checks that a generic id field can represent
// NULL, which the resolver relies on to skip empty references.
func validateGenericIDField(f *FieldMeta) error {
	if f.Type.Kind() == reflect.Ptr {
		return nil
	}
	if f.Type.Kind() == reflect.Struct {
		if valid, ok := f.Type.FieldByName("Valid"); ok && valid.Type.Kind() == reflect.Bool {
			return nil
		}
	}
	return fmt.Errorf("generic id field %s must be a pointer or sql.Null type, got %s", f.Name, f.Type)
}
