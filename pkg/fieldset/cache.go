package fieldset

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// cache memoizes field results keyed on the values the field actually reads.
// It is owned by a single Engine and must not be shared across sessions.
type cache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

func newCache() *cache {
	return &cache{entries: make(map[string]Result)}
}

func (c *cache) get(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[key]
	return res, ok
}

func (c *cache) put(key string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = res
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Result)
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey builds the composite key: field name, the field's own value, then
// (dependency, value) pairs in dependency order. Names are quoted so separator
// bytes inside a name cannot shift the boundaries.
func cacheKey(name string, deps []string, state FormState) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(name))
	b.WriteByte('=')
	b.WriteString(encodeValue(state[name]))
	for _, dep := range deps {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(dep))
		b.WriteByte('=')
		b.WriteString(encodeValue(state[dep]))
	}
	return b.String()
}

// encodeValue renders v tagged with its dynamic type. JSON sorts map keys, so
// structurally equal maps encode equally; a string and the []byte it base64
// decodes to do not.
func encodeValue(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return fmt.Sprintf("%T:nil", v)
		}
		return fmt.Sprintf("%T:%s", v, encodeValue(rv.Elem().Interface()))
	case reflect.Struct:
		// JSON drops unexported fields.
		return fmt.Sprintf("%T:%#v", v, v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		// NaN, channels and funcs.
		return fmt.Sprintf("%T:%#v", v, v)
	}
	return fmt.Sprintf("%T:%s", v, data)
}
