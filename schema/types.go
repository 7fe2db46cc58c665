package schema

import (
	"reflect"
	"unsafe"
)

type EntityMeta struct {
	Type      reflect.Type
	Name      string
	TableName string
	Fields    []*FieldMeta
	FieldMap  map[string]*FieldMeta // Go field name -> FieldMeta
	ColumnMap map[string]*FieldMeta // Database column name -> FieldMeta
	Primary   *FieldMeta

	// Relations holds many-to-many collections keyed by Go field name.
	Relations map[string]*RelationMeta

	// GenericRefs holds polymorphic reference slots keyed by Go field name.
	GenericRefs map[string]*GenericRefMeta
}

// Columns returns the database column names of scannable fields in
// declaration order.
func (m *EntityMeta) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.DBName
	}
	return cols
}

// ScanAndSet copies scanned values into dest using the precompiled
// direct setters. Columns without a mapped field are ignored.
func (m *EntityMeta) ScanAndSet(dest any, columns []string, scanVals []any) error {
	structVal := reflect.ValueOf(dest).Elem()
	structPtr := unsafe.Pointer(structVal.UnsafeAddr())

	for i, col := range columns {
		fieldMeta := m.ColumnMap[col]
		if fieldMeta == nil {
			continue
		}
		fieldMeta.DirectSet(structPtr, scanVals[i])
	}
	return nil
}

type FieldMeta struct {
	Name   string
	DBName string
	Type   reflect.Type
	Index  []int
	Tag    *ParsedTag
	Offset uintptr

	Generator IDGenerator

	// DirectSet writes a scanned value through an unsafe pointer,
	// converting driver types as needed.
	DirectSet func(structPtr unsafe.Pointer, val any)
}

type TableNamer interface {
	TableName() string
}
