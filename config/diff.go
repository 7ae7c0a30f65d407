package config

import "reflect"

// changedFields lists the top-level fields of two structs (or pointers to
// structs) of the same type whose values differ.
func changedFields(old, new any) []string {
	ov, nv := reflect.ValueOf(old), reflect.ValueOf(new)
	if !ov.IsValid() || !nv.IsValid() {
		return nil
	}
	if ov.Kind() == reflect.Pointer {
		ov = ov.Elem()
	}
	if nv.Kind() == reflect.Pointer {
		nv = nv.Elem()
	}
	if ov.Kind() != reflect.Struct || ov.Type() != nv.Type() {
		return nil
	}

	var changed []string
	for i := 0; i < ov.NumField(); i++ {
		f := ov.Type().Field(i)
		if !f.IsExported() {
			continue
		}
		if !reflect.DeepEqual(ov.Field(i).Interface(), nv.Field(i).Interface()) {
			changed = append(changed, f.Name)
		}
	}
	return changed
}
