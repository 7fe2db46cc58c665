package schema

import (
	"database/sql"
	"reflect"
	"sync"
	"time"
	"unsafe"
)

var setterCreators = sync.Map{}

func registerSetterCreator[T any]() {
	var zero T
	zeroType := reflect.TypeOf(zero)

	setterCreators.Store(zeroType, func(offset uintptr) func(unsafe.Pointer, any) {
		return func(structPtr unsafe.Pointer, value any) {
			fieldPtr := (*T)(unsafe.Add(structPtr, offset))

			if value == nil {
				*fieldPtr = zero
				return
			}
			if typed, ok := value.(T); ok {
				*fieldPtr = typed
				return
			}

			val := reflect.ValueOf(value)
			if val.Kind() == reflect.Ptr {
				if val.IsNil() {
					*fieldPtr = zero
					return
				}
				val = val.Elem()
			}
			if val.Type().ConvertibleTo(zeroType) {
				*fieldPtr = val.Convert(zeroType).Interface().(T)
			}
		}
	})
}

// registerPtrSetterCreator handles *T fields where the driver delivers
// a plain T (or convertible) value. NULL maps to a nil pointer.
func registerPtrSetterCreator[T any]() {
	var zero T
	elemType := reflect.TypeOf(zero)
	ptrType := reflect.PointerTo(elemType)

	setterCreators.Store(ptrType, func(offset uintptr) func(unsafe.Pointer, any) {
		return func(structPtr unsafe.Pointer, value any) {
			fieldPtr := (**T)(unsafe.Add(structPtr, offset))

			if value == nil {
				*fieldPtr = nil
				return
			}
			if typed, ok := value.(T); ok {
				v := typed
				*fieldPtr = &v
				return
			}
			if typed, ok := value.(*T); ok {
				*fieldPtr = typed
				return
			}

			val := reflect.ValueOf(value)
			if val.Kind() == reflect.Ptr {
				if val.IsNil() {
					*fieldPtr = nil
					return
				}
				val = val.Elem()
			}
			if val.Type().ConvertibleTo(elemType) {
				v := val.Convert(elemType).Interface().(T)
				*fieldPtr = &v
			}
		}
	})
}

func init() {
	registerSetterCreator[int]()
	registerSetterCreator[int32]()
	registerSetterCreator[int64]()
	registerSetterCreator[uint64]()
	registerSetterCreator[string]()
	registerSetterCreator[bool]()
	registerSetterCreator[float64]()
	registerSetterCreator[time.Time]()
	registerSetterCreator[[]byte]()
	registerSetterCreator[sql.NullString]()
	registerSetterCreator[sql.NullTime]()
	registerSetterCreator[sql.NullInt64]()

	registerPtrSetterCreator[int64]()
	registerPtrSetterCreator[uint64]()
	registerPtrSetterCreator[string]()
	registerPtrSetterCreator[time.Time]()
}

func createDirectSetterForType(fieldType reflect.Type, offset uintptr) func(unsafe.Pointer, any) {
	if creator, ok := setterCreators.Load(fieldType); ok {
		return creator.(func(uintptr) func(unsafe.Pointer, any))(offset)
	}

	// Reflection fallback for unregistered types.
	return func(structPtr unsafe.Pointer, value any) {
		targetValue := reflect.NewAt(fieldType, unsafe.Add(structPtr, offset)).Elem()
		if value == nil {
			targetValue.Set(reflect.Zero(fieldType))
			return
		}

		val := reflect.ValueOf(value)
		if val.Kind() == reflect.Ptr && fieldType.Kind() != reflect.Ptr {
			if val.IsNil() {
				targetValue.Set(reflect.Zero(fieldType))
				return
			}
			val = val.Elem()
		}

		switch {
		case val.Type() == fieldType:
			targetValue.Set(val)
		case val.Type().ConvertibleTo(fieldType):
			targetValue.Set(val.Convert(fieldType))
		case fieldType.Kind() == reflect.Ptr && val.Type().ConvertibleTo(fieldType.Elem()):
			ptr := reflect.New(fieldType.Elem())
			ptr.Elem().Set(val.Convert(fieldType.Elem()))
			targetValue.Set(ptr)
		}
	}
}
