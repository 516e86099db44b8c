package orientation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"
)

// DefaultDebounce is the window used to coalesce resize notifications.
const DefaultDebounce = 400 * time.Millisecond

// OptionDefaultOrientation is the only key recognised in untyped options.
const OptionDefaultOrientation = "defaultOrientation"

// ErrInvalidOptions is returned when options are not object-shaped.
var ErrInvalidOptions = errors.New("The options argument must be formatted as an object.")

// InvalidDefaultOrientationError reports a defaultOrientation that is not
// "portrait" or "landscape". Value holds the offending value as given.
type InvalidDefaultOrientationError struct {
	Value any
}

func (e *InvalidDefaultOrientationError) Error() string {
	var shown string
	switch v := e.Value.(type) {
	case string:
		shown = fmt.Sprintf("%q", v)
	case Orientation:
		shown = fmt.Sprintf("%q", string(v))
	default:
		shown = fmt.Sprintf("%v", v)
	}
	return shown + ` is not a valid defaultOrientation. Use "portrait" or "landscape".`
}

// Options configures an Observer.
type Options struct {
	// DefaultOrientation seeds the value until a measurement is available.
	// Empty means Portrait.
	DefaultOrientation Orientation
	// Debounce overrides DefaultDebounce when non-zero.
	Debounce time.Duration
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Validate checks DefaultOrientation.
func (o Options) Validate() error {
	if o.DefaultOrientation == "" || o.DefaultOrientation.Valid() {
		return nil
	}
	return &InvalidDefaultOrientationError{Value: o.DefaultOrientation}
}

func (o Options) withDefaults() Options {
	if o.DefaultOrientation == "" {
		o.DefaultOrientation = Portrait
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// ParseOptions converts untyped configuration, such as a decoded YAML or
// JSON document, into Options. nil yields the defaults. Any map or struct
// counts as object-shaped; everything else fails with ErrInvalidOptions.
func ParseOptions(v any) (Options, error) {
	switch opts := v.(type) {
	case nil:
		return Options{DefaultOrientation: Portrait}, nil
	case Options:
		if err := opts.Validate(); err != nil {
			return Options{}, err
		}
		return opts, nil
	case *Options:
		if opts == nil {
			return Options{DefaultOrientation: Portrait}, nil
		}
		return ParseOptions(*opts)
	case map[string]any:
		return optionsFromValue(opts[OptionDefaultOrientation])
	case map[any]any:
		return optionsFromValue(opts[OptionDefaultOrientation])
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Options{DefaultOrientation: Portrait}, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return optionsFromValue(mapLookup(rv, OptionDefaultOrientation))
	case reflect.Struct:
		return optionsFromValue(structLookup(rv, OptionDefaultOrientation))
	default:
		return Options{}, ErrInvalidOptions
	}
}

// mapLookup returns m[key] for maps keyed by strings or interfaces, nil otherwise.
func mapLookup(m reflect.Value, key string) any {
	kt := m.Type().Key()
	if kt.Kind() != reflect.String && kt.Kind() != reflect.Interface {
		return nil
	}
	k := reflect.ValueOf(key)
	if !k.Type().AssignableTo(kt) {
		k = k.Convert(kt)
	}
	val := m.MapIndex(k)
	if !val.IsValid() {
		return nil
	}
	return val.Interface()
}

// structLookup finds the exported field whose json or yaml tag, or whose
// name, matches key. Zero values count as unset.
func structLookup(s reflect.Value, key string) any {
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || !fieldMatches(f, key) {
			continue
		}
		val := s.Field(i)
		if val.IsZero() {
			return nil
		}
		return val.Interface()
	}
	return nil
}

func fieldMatches(f reflect.StructField, key string) bool {
	for _, tag := range []string{"json", "yaml"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == key {
			return true
		}
	}
	return strings.EqualFold(f.Name, key)
}

// optionsFromValue treats a missing or null defaultOrientation as absent.
func optionsFromValue(raw any) (Options, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return Options{DefaultOrientation: Portrait}, nil
	case string:
		s = v
	case Orientation:
		s = string(v)
	default:
		return Options{}, &InvalidDefaultOrientationError{Value: raw}
	}
	if !Orientation(s).Valid() {
		return Options{}, &InvalidDefaultOrientationError{Value: raw}
	}
	return Options{DefaultOrientation: Orientation(s)}, nil
}
