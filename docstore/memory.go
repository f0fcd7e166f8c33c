package docstore

import (
	"context"
	"reflect"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Memory is an in-process Store. Documents are returned in insertion order
// unless a query orders them; like Firestore, an ordered query skips
// documents that lack the ordering field.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memoryData
	queryHook   func(collection string, q Query) error
}

type memoryData struct {
	docs  map[string]Fields
	order []string
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryData)}
}

// FailQueries installs a hook consulted before every Find. A non-nil error
// from the hook is returned instead of results, which lets tests reproduce
// store-side query failures such as a missing index.
func (m *Memory) FailQueries(hook func(collection string, q Query) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryHook = hook
}

func (m *Memory) Collection(name string) Collection {
	return &memoryCollection{store: m, name: name}
}

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) data(name string) *memoryData {
	d, ok := m.collections[name]
	if !ok {
		d = &memoryData{docs: make(map[string]Fields)}
		m.collections[name] = d
	}
	return d
}

// peek returns the collection data without creating it; safe under RLock.
func (m *Memory) peek(name string) *memoryData {
	if d, ok := m.collections[name]; ok {
		return d
	}
	return &memoryData{}
}

type memoryCollection struct {
	store *Memory
	name  string
}

func (c *memoryCollection) Add(ctx context.Context, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d := c.store.data(c.name)
	d.docs[id] = copyFields(fields)
	d.order = append(d.order, id)
	return id, nil
}

func (c *memoryCollection) Set(ctx context.Context, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d := c.store.data(c.name)
	if _, exists := d.docs[id]; !exists {
		d.order = append(d.order, id)
	}
	d.docs[id] = copyFields(fields)
	return nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	fields, ok := c.store.peek(c.name).docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Fields: copyFields(fields)}, nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	existing, ok := c.store.data(c.name).docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyFields(fields) {
		existing[k] = v
	}
	return nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d := c.store.data(c.name)
	if _, ok := d.docs[id]; !ok {
		return nil
	}
	delete(d.docs, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *memoryCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if c.store.queryHook != nil {
		if err := c.store.queryHook(c.name, q); err != nil {
			return nil, err
		}
	}
	d := c.store.peek(c.name)
	var docs []Document
	for _, id := range d.order {
		fields := d.docs[id]
		if !matches(fields, q.Filters) {
			continue
		}
		if q.Order != nil {
			if v, ok := fields[q.Order.Field]; !ok || v == nil {
				continue
			}
		}
		docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
	}
	if q.Order != nil {
		field, desc := q.Order.Field, q.Order.Desc
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i].Fields[field], docs[j].Fields[field])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || !equalValues(v, f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

// typeRank follows Firestore's cross-type ordering for the types we store.
func typeRank(v any) int {
	switch {
	case v == nil:
		return 0
	case isBool(v):
		return 1
	case isNumber(v):
		return 2
	case isTime(v):
		return 3
	case isString(v):
		return 4
	default:
		return 5
	}
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case 2:
		fa, fb := cast.ToFloat64(a), cast.ToFloat64(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 3:
		return a.(time.Time).Compare(b.(time.Time))
	case 4:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	}
	return 0
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func copyFields(in Fields) Fields {
	out := make(Fields, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case []string:
			out[k] = slices.Clone(t)
		case []any:
			out[k] = slices.Clone(t)
		default:
			out[k] = v
		}
	}
	return out
}
