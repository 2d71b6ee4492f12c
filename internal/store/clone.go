package store

import "reflect"

// clone returns a copy of rec that shares no slices, maps or pointers with it, so records
// handed out by MemoryStore can be mutated without touching the stored ones.
func clone[T any](rec T) T {
	deepen(reflect.ValueOf(&rec).Elem())
	return rec
}

// deepen replaces every reference held by v with a fresh copy. Unexported fields are left
// as they are.
func deepen(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				deepen(f)
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			return
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(c, v)
		for i := 0; i < c.Len(); i++ {
			deepen(c.Index(i))
		}
		v.Set(c)
	case reflect.Map:
		if v.IsNil() {
			return
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val := reflect.New(v.Type().Elem()).Elem()
			val.Set(iter.Value())
			deepen(val)
			c.SetMapIndex(iter.Key(), val)
		}
		v.Set(c)
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		c := reflect.New(v.Type().Elem())
		c.Elem().Set(v.Elem())
		deepen(c.Elem())
		v.Set(c)
	}
}
