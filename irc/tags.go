package irc

import (
	"strings"
)

// tagEscaper works in a single pass, so a backslash it writes is never
// escaped again.
var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	" ", `\s`,
	"\n", `\n`,
	"\r", `\r`,
	";", `\:`,
)

// Tags is an ordered set of IRCv3 message tags. Iteration follows insertion
// order, which is also the order tags are written back to the wire. The zero
// value and a nil *Tags are both empty and ready to read.
type Tags struct {
	keys   []string
	values map[string]string
}

// NewTags builds tags from alternating key/value pairs. A trailing key
// without a value gets the empty value.
func NewTags(pairs ...string) *Tags {
	tags := &Tags{}
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		tags.Set(pairs[i], value)
	}
	return tags
}

// Set stores value under key. A key that is already present keeps its
// original position and takes the new value.
func (t *Tags) Set(key string, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *Tags) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	value, ok := t.values[key]
	return value, ok
}

func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in insertion order.
func (t *Tags) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Each calls fn for every tag in insertion order.
func (t *Tags) Each(fn func(key string, value string)) {
	if t == nil {
		return
	}
	for _, key := range t.keys {
		fn(key, t.values[key])
	}
}

// Map returns the tags as a plain map, losing their order.
func (t *Tags) Map() map[string]string {
	result := make(map[string]string, t.Len())
	t.Each(func(key string, value string) {
		result[key] = value
	})
	return result
}

// Equal compares keys, values and order. nil and empty tags are equal.
func (t *Tags) Equal(other *Tags) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		key := t.keys[i]
		if other.keys[i] != key || other.values[key] != t.values[key] {
			return false
		}
	}
	return true
}

// String renders the tags without the leading '@', the way they appear on
// the wire. Keys are not checked here, Serialize rejects keys the wire
// cannot carry.
func (t *Tags) String() string {
	var b strings.Builder
	t.Each(func(key string, value string) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(EscapeTagValue(value))
		b.WriteByte(';')
	})
	return b.String()
}

// EscapeTagValue escapes a raw tag value for the wire.
func EscapeTagValue(value string) string {
	return tagEscaper.Replace(value)
}

// UnescapeTagValue reverses EscapeTagValue in a single left to right pass.
// Unknown escapes and a lone trailing backslash are kept as they are.
func UnescapeTagValue(value string) string {
	if strings.IndexByte(value, '\\') == -1 {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i == len(value)-1 {
			b.WriteByte(c)
			continue
		}
		switch value[i+1] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case ':':
			b.WriteByte(';')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(c)
			b.WriteByte(value[i+1])
		}
		i++
	}
	return b.String()
}
