package storage

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/controller/item"
)

// ErrNotEnumerable is returned for backends that cannot list their keys.
var ErrNotEnumerable = errors.New("storage backend cannot list session namespaces")

// Purger is implemented by backends that can list and remove the
// namespaces written through Prefixed.
type Purger interface {
	// Namespaces returns the distinct session namespaces, sorted.
	Namespaces(ctx context.Context) ([]string, error)
	// Purge removes every item of namespace and returns how many were removed.
	Purge(ctx context.Context, namespace string) (int64, error)
}

// AsPurger returns b as a Purger or ErrNotEnumerable.
func AsPurger(b Backend) (Purger, error) {
	p, ok := b.(Purger)
	if !ok {
		return nil, ErrNotEnumerable
	}

	return p, nil
}

// namespacesOf collects the distinct prefixes of keys. Keys without a
// namespace are skipped.
func namespacesOf(keys []string) []string {
	seen := make(map[string]struct{})

	for _, k := range keys {
		ns, _, ok := strings.Cut(k, Separator)
		if !ok || ns == "" {
			continue
		}

		seen[ns] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}

	sort.Strings(out)

	return out
}

// Namespaces implements Purger.
func (g *Gorm) Namespaces(ctx context.Context) ([]string, error) {
	items, err := item.GetAll(g.db.WithContext(ctx), "")
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(items))
	for i := range items {
		keys[i] = items[i].Key
	}

	return namespacesOf(keys), nil
}

// Purge implements Purger.
func (g *Gorm) Purge(ctx context.Context, namespace string) (int64, error) {
	if namespace == "" {
		return 0, item.ErrItemKeyEmpty
	}

	return item.DeletePrefix(g.db.WithContext(ctx), namespace+Separator)
}

// Namespaces implements Purger.
func (m *Memory) Namespaces(_ context.Context) ([]string, error) {
	return namespacesOf(m.Keys()), nil
}

// Purge implements Purger.
func (m *Memory) Purge(_ context.Context, namespace string) (int64, error) {
	if namespace == "" {
		return 0, item.ErrItemKeyEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	for k := range m.items {
		if strings.HasPrefix(k, namespace+Separator) {
			delete(m.items, k)
			n++
		}
	}

	return n, nil
}

// scanCount is the page size of the redis SCAN calls.
const scanCount = 100

// Namespaces implements Purger.
func (r *Redis) Namespaces(ctx context.Context) ([]string, error) {
	keys, err := r.scan(ctx, "*")
	if err != nil {
		return nil, err
	}

	for i := range keys {
		keys[i] = strings.TrimPrefix(keys[i], r.prefix)
	}

	return namespacesOf(keys), nil
}

// Purge implements Purger.
func (r *Redis) Purge(ctx context.Context, namespace string) (int64, error) {
	if namespace == "" {
		return 0, item.ErrItemKeyEmpty
	}

	keys, err := r.scan(ctx, namespace+Separator+"*")
	if err != nil || len(keys) == 0 {
		return 0, err
	}

	return r.client.Del(ctx, keys...).Result()
}

// scan lists the keys below the client prefix matching pattern.
func (r *Redis) scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string

	iter := r.client.Scan(ctx, 0, r.prefix+pattern, scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	return keys, iter.Err()
}
