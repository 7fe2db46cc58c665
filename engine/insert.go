package engine

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/eager/schema"
)

// Insert writes a new row for model, a pointer to a struct. Generated
// ids, creation and update timestamps are filled in before the write;
// database-assigned serial keys are read back into the struct.
func (e *Engine) Insert(model any) error {
	return e.InsertContext(context.Background(), model)
}

// InsertContext is Insert with an explicit context.
func (e *Engine) InsertContext(ctx context.Context, model any) error {
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("insert target must be a pointer to struct, got %T", model)
	}
	ev := v.Elem()

	meta, err := e.schema.Introspect(ev.Type())
	if err != nil {
		return err
	}

	now := time.Now()
	cols := make([]string, 0, len(meta.Fields))
	vals := make([]any, 0, len(meta.Fields))
	var serial *schema.FieldMeta

	for _, f := range meta.Fields {
		fv := ev.FieldByIndex(f.Index)

		switch {
		case f.Tag.AutoNowAdd || f.Tag.AutoNow:
			if err := setFieldValue(fv, now); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		case f.Generator != nil && fv.IsZero():
			id, err := f.Generator.Generate()
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			if err := setFieldValue(fv, id); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		case f == meta.Primary && fv.IsZero() && isIntegerKind(f.Type.Kind()):
			// Serial key assigned by the database.
			serial = f
			continue
		}

		cols = append(cols, f.DBName)
		vals = append(vals, fv.Interface())
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(e.dialect.QuoteIdentifier(meta.TableName))
	sb.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.dialect.QuoteIdentifier(col))
	}
	sb.WriteString(") VALUES (")
	for i := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.dialect.Placeholder(i + 1))
	}
	sb.WriteString(")")

	if serial != nil && e.dialect.SupportsReturning() {
		sb.WriteString(" RETURNING ")
		sb.WriteString(e.dialect.QuoteIdentifier(serial.DBName))

		rows, err := e.db.QueryContext(ctx, sb.String(), vals...)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			return fmt.Errorf("insert into %s returned no row", meta.TableName)
		}
		var id any
		if err := rows.Scan(&id); err != nil {
			return err
		}
		return setFieldValue(ev.FieldByIndex(serial.Index), id)
	}

	res, err := e.db.ExecContext(ctx, sb.String(), vals...)
	if err != nil {
		return err
	}
	if serial != nil {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		return setFieldValue(ev.FieldByIndex(serial.Index), id)
	}
	return nil
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// setFieldValue assigns val into a struct field, converting where
// needed. Stringer values (uuid.UUID, ulid.ULID) assign into string
// fields through their text form.
func setFieldValue(fv reflect.Value, val any) error {
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(fv.Type()):
		fv.Set(rv)
	case rv.Type().ConvertibleTo(fv.Type()) && !(fv.Kind() == reflect.String && rv.Kind() != reflect.String):
		fv.Set(rv.Convert(fv.Type()))
	case fv.Kind() == reflect.String:
		if str, ok := val.(fmt.Stringer); ok {
			fv.SetString(str.String())
		} else {
			return fmt.Errorf("cannot assign %T to string field", val)
		}
	default:
		return fmt.Errorf("cannot assign %T to field of type %s", val, fv.Type())
	}
	return nil
}
