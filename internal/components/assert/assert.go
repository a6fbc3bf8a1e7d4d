package assert

import "reflect"

// NotNil panics if value is nil, this includes typed nil pointers stored in interfaces.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			panic("expected value to be not nil")
		}
	}
}
