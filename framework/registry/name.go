package registry

import (
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/km-arc/go-spring/framework/component"
)

// NameGenerator derives a store-unique name for a descriptor that has no
// explicit one. Implementations must be deterministic for a given source type
// and must never return a name for which taken reports true — collisions are
// resolved by the generator, not surfaced as errors.
//
//	// Spring: BeanNameGenerator / AnnotationBeanNameGenerator
type NameGenerator interface {
	Generate(d *component.Descriptor, taken func(string) bool) string
}

// DefaultNameGenerator names components after their decapitalized short type
// name: *app.Widget → "widget". Collisions get a numeric suffix: "widget2",
// "widget3", and so on.
type DefaultNameGenerator struct{}

func (DefaultNameGenerator) Generate(d *component.Descriptor, taken func(string) bool) string {
	base := decapitalize(shortTypeName(d.Type))
	if base == "" {
		base = "component"
	}
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// shortTypeName returns the unqualified type name, unwrapping pointers.
// Unnamed types yield "".
func shortTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// decapitalize lowercases the leading rune unless the first two runes are
// both uppercase, in which case the name is kept as-is (URLParser stays
// URLParser). Same rule as java.beans.Introspector.decapitalize, which the
// upstream name generator delegates to.
func decapitalize(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return name
	}
	if second, _ := utf8.DecodeRuneInString(name[size:]); unicode.IsUpper(second) {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}
