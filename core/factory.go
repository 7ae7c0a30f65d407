package core

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	containerType = reflect.TypeFor[Container]()
	errorType     = reflect.TypeFor[error]()
)

// Factory builds module instances from candidates.
type Factory struct{}

// Construct calls the candidate's constructor with injector. Besides the
// module it returns the injection context the next construction should
// receive: the module's own injector, or injector when the module has none.
func (Factory) Construct(c Candidate, injector Container) (m Module, next Container, err error) {
	if c.Class == nil {
		return nil, nil, errors.New("candidate has no class")
	}
	fn := reflect.ValueOf(c.Class.New)
	if err := checkConstructor(c.Class.New); err != nil {
		return nil, nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			m, next, err = nil, nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	out := fn.Call([]reflect.Value{reflect.ValueOf(&injector).Elem()})
	if len(out) == 2 && !out[1].IsNil() {
		return nil, nil, out[1].Interface().(error)
	}

	res := out[0]
	if isNil(res) {
		return nil, nil, errors.New("constructor returned nil")
	}
	if res.Kind() == reflect.Interface {
		res = res.Elem()
	}
	if res.Type() != c.Class.Type {
		return nil, nil, fmt.Errorf("constructor produced %v, entry declares %v", res.Type(), c.Class.Type)
	}
	m = res.Interface().(Module)

	next = injector
	if h, ok := m.(injectorHolder); ok && h.Injector() != nil {
		next = h.Injector()
	}
	return m, next, nil
}

func checkConstructor(ctor any) error {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return fmt.Errorf("constructor is %T, want func(core.Container)", ctor)
	}
	t := fn.Type()
	if t.NumIn() != 1 || t.IsVariadic() || t.In(0) != containerType {
		return fmt.Errorf("constructor %v must take exactly one core.Container", t)
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return fmt.Errorf("constructor %v: second result must be error", t)
		}
	default:
		return fmt.Errorf("constructor %v must return a module and optionally an error", t)
	}
	if !t.Out(0).Implements(moduleType) {
		return fmt.Errorf("constructor %v does not return a core.Module", t)
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
