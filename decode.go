package environment

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	modellib "github.com/ygrebnov/model"
)

const envTagName = "env"

var durationType = reflect.TypeOf(time.Duration(0))

// ModelInit binds a model.Model[T] to the struct being decoded, so that Decode
// can fill zero values from `default` tags before copying and run `validate`
// rules afterwards.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

type decodeOptions[T any] struct {
	prefix    string
	modelInit ModelInit[T]
}

// DecodeOption configures a single Decode call.
type DecodeOption[T any] func(*decodeOptions[T])

// WithPrefix makes Decode look fields up as PREFIX_FIELD instead of FIELD.
// Panics if prefix is empty.
func WithPrefix[T any](prefix string) DecodeOption[T] {
	return func(o *decodeOptions[T]) {
		if prefix == "" {
			panic("environment: WithPrefix: prefix cannot be empty")
		}
		o.prefix = prefix
	}
}

// WithModel enables github.com/ygrebnov/model integration. init is called
// once per Decode with dst; the returned model gets SetDefaults() before any
// value is copied and Validate() after. Panics if init is nil.
func WithModel[T any](init ModelInit[T]) DecodeOption[T] {
	return func(o *decodeOptions[T]) {
		if init == nil {
			panic("environment: WithModel: init cannot be nil")
		}
		o.modelInit = init
	}
}

// Decode copies resolved values into the struct pointed to by dst.
//
// Each exported field is matched to a variable name: the `env` tag when
// present, otherwise the field name in SCREAMING_SNAKE_CASE (ApiKey ->
// API_KEY). Fields of nested structs are matched as PARENT_FIELD. A field
// tagged `env:"-"` is skipped, and so is any field whose name was not
// declared. Pointer-to-struct fields are allocated only when some declared
// variable lives under them.
//
// Supported field types are string (any value, rendered with Value.String),
// bool, integers and floats (from numbers), []string (from lists) and
// time.Duration (from strings such as "1h30m"). A value that does not fit
// its field yields an error wrapping ErrDecode.
func Decode[T any](e *Environment, dst *T, opts ...DecodeOption[T]) error {
	var o decodeOptions[T]
	for _, opt := range opts {
		opt(&o)
	}

	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrDecode)
	}
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: destination must point to a struct, got %s", ErrDecode, rv.Type())
	}

	var mdl *modellib.Model[T]
	if o.modelInit != nil {
		var err error
		if mdl, err = o.modelInit(dst); err != nil {
			return err
		}
	}
	if mdl != nil {
		if err := mdl.SetDefaults(); err != nil {
			return err
		}
	}

	if err := e.decodeStruct(rv, o.prefix, nil); err != nil {
		return err
	}

	if mdl != nil {
		return mdl.Validate()
	}
	return nil
}

func (e *Environment) decodeStruct(v reflect.Value, prefix string, segments []string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag := sf.Tag.Get(envTagName)
		if tag == "-" {
			continue
		}
		seg := tag
		if seg == "" {
			seg = toScreamingSnake(sf.Name)
		}
		path := append(slices.Clip(segments), seg)
		name := buildEnvName(prefix, path)
		field := v.Field(i)

		switch {
		case field.Kind() == reflect.Struct:
			if err := e.decodeStruct(field, prefix, path); err != nil {
				return err
			}
		case field.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct:
			if !e.hasDeclaredPrefix(name + "_") {
				continue
			}
			if field.IsNil() {
				field.Set(reflect.New(sf.Type.Elem()))
			}
			if err := e.decodeStruct(field.Elem(), prefix, path); err != nil {
				return err
			}
		default:
			val, ok := e.values[name]
			if !ok {
				continue
			}
			if err := setField(field, val); err != nil {
				return fmt.Errorf("%w %s into %s: %w", ErrDecode, name, sf.Type, err)
			}
		}
	}
	return nil
}

func (e *Environment) hasDeclaredPrefix(prefix string) bool {
	for _, name := range e.names {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func setField(f reflect.Value, v Value) error {
	if f.Type() == durationType {
		s, ok := v.Str()
		if !ok {
			return kindMismatch(v, KindString)
		}
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		f.SetInt(int64(d))
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(v.String())
	case reflect.Bool:
		b, ok := v.Truth()
		if !ok {
			return kindMismatch(v, KindBool)
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := integral(v)
		if err != nil {
			return err
		}
		if n < math.MinInt64 || n >= math.MaxInt64 || f.OverflowInt(int64(n)) {
			return errOverflow
		}
		f.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := integral(v)
		if err != nil {
			return err
		}
		if n < 0 || n >= math.MaxUint64 || f.OverflowUint(uint64(n)) {
			return errOverflow
		}
		f.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		n, ok := v.Num()
		if !ok {
			return kindMismatch(v, KindNumber)
		}
		if f.OverflowFloat(n) {
			return errOverflow
		}
		f.SetFloat(n)
	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", f.Type())
		}
		items, ok := v.Items()
		if !ok {
			return kindMismatch(v, KindList)
		}
		f.Set(reflect.ValueOf(items).Convert(f.Type()))
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

var (
	errOverflow    = errors.New("value out of range")
	errNotIntegral = errors.New("number is not an integer")
)

func integral(v Value) (float64, error) {
	n, ok := v.Num()
	if !ok {
		return 0, kindMismatch(v, KindNumber)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, errNotIntegral
	}
	return n, nil
}

func kindMismatch(v Value, want Kind) error {
	return fmt.Errorf("got %s value, want %s", v.Kind(), want)
}

func buildEnvName(prefix string, segments []string) string {
	switch {
	case prefix == "" && len(segments) == 0:
		return ""
	case prefix == "":
		return strings.Join(segments, "_")
	case len(segments) == 0:
		return prefix
	default:
		return prefix + "_" + strings.Join(segments, "_")
	}
}

// toScreamingSnake splits words on lower->upper transitions only, so
// ApiKey2FA becomes API_KEY2FA.
func toScreamingSnake(s string) string {
	var (
		b    strings.Builder
		prev rune
	)
	for i, r := range s {
		if i > 0 && prev >= 'a' && prev <= 'z' && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
