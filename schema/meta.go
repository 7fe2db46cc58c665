package schema

import (
	"fmt"
	"reflect"
)

// buildMeta constructs metadata for a struct type: scannable fields
// with precompiled setters, lookup maps, the primary key, plus any
// relation and generic reference slots declared through eager tags.
//
// The expensive reflection happens once per type; results are cached
// by the Context.
func (c *Context) buildMeta(t reflect.Type) (*EntityMeta, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("invalid model type: %s (expected struct)", t.Kind())
	}

	numFields := t.NumField()
	meta := &EntityMeta{
		Type:        t,
		Name:        t.Name(),
		Fields:      make([]*FieldMeta, 0, numFields),
		FieldMap:    make(map[string]*FieldMeta, numFields),
		ColumnMap:   make(map[string]*FieldMeta, numFields),
		Relations:   make(map[string]*RelationMeta),
		GenericRefs: make(map[string]*GenericRefMeta),
	}

	if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
		meta.TableName = tn.TableName()
	} else {
		meta.TableName = c.namingStrategy.TableName(t.Name())
	}

	type pendingGeneric struct {
		name  string
		index []int
		tag   *EagerTag
	}
	var generics []pendingGeneric

	for i := 0; i < numFields; i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		eagerTag, err := ParseEagerTag(f.Name, f.Tag)
		if err != nil {
			return nil, err
		}
		if eagerTag != nil {
			switch eagerTag.Kind {
			case eagerKindMany2Many:
				if f.Type.Kind() != reflect.Slice || f.Type.Elem().Kind() != reflect.Struct {
					return nil, fmt.Errorf("many2many field %s must be a slice of structs, got %s", f.Name, f.Type)
				}
				meta.Relations[f.Name] = &RelationMeta{
					Name:       f.Name,
					Index:      f.Index,
					SliceType:  f.Type,
					Target:     f.Type.Elem(),
					JoinTable:  eagerTag.JoinTable,
					ForeignKey: eagerTag.ForeignKey,
					References: eagerTag.References,
				}
			case eagerKindGeneric:
				if f.Type.Kind() != reflect.Interface {
					return nil, fmt.Errorf("generic field %s must be an interface slot, got %s", f.Name, f.Type)
				}
				generics = append(generics, pendingGeneric{name: f.Name, index: f.Index, tag: eagerTag})
			}
			// Relation slots are populated by secondary fetches, never scanned.
			continue
		}

		parsedTag, err := c.parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, fmt.Errorf("error parsing tag for field %s: %w", f.Name, err)
		}
		if parsedTag.IsSkipped() {
			continue
		}
		if parsedTag.ColumnName == "" {
			parsedTag.ColumnName = c.namingStrategy.ColumnName(f.Name)
		}

		fm := &FieldMeta{
			Name:      f.Name,
			DBName:    parsedTag.ColumnName,
			Type:      f.Type,
			Index:     f.Index,
			Tag:       parsedTag,
			Offset:    f.Offset,
			Generator: parsedTag.GetGenerator(),
			DirectSet: createDirectSetterForType(f.Type, f.Offset),
		}

		meta.Fields = append(meta.Fields, fm)
		meta.FieldMap[f.Name] = fm
		meta.ColumnMap[parsedTag.ColumnName] = fm

		if parsedTag.Primary {
			meta.Primary = fm
		}
	}

	// Fall back to the conventional id column when nothing is tagged primary.
	if meta.Primary == nil {
		if fm, ok := meta.ColumnMap["id"]; ok {
			meta.Primary = fm
		}
	}

	for _, pg := range generics {
		typeField, ok := meta.FieldMap[pg.tag.TypeField]
		if !ok {
			return nil, fmt.Errorf("generic field %s: type field %s not found", pg.name, pg.tag.TypeField)
		}
		if typeField.Type.Kind() != reflect.String {
			return nil, fmt.Errorf("generic field %s: type field %s must be a string, got %s", pg.name, pg.tag.TypeField, typeField.Type)
		}
		idField, ok := meta.FieldMap[pg.tag.IDField]
		if !ok {
			return nil, fmt.Errorf("generic field %s: id field %s not found", pg.name, pg.tag.IDField)
		}
		if err := validateGenericIDField(idField); err != nil {
			return nil, fmt.Errorf("generic field %s: %w", pg.name, err)
		}

		meta.GenericRefs[pg.name] = &GenericRefMeta{
			Name:      pg.name,
			Index:     pg.index,
			TypeField: typeField,
			IDField:   idField,
		}
	}

	return meta, nil
}
