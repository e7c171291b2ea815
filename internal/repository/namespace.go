package repository

import "context"

// Namespaced prefixes every key of the wrapped store. Close and Ping are
// passed through, so a namespace must not outlive the store it wraps.
type Namespaced struct {
	kv     KV
	prefix string
}

// WithNamespace scopes kv to keys under prefix. An empty prefix returns kv.
func WithNamespace(kv KV, prefix string) KV {
	if prefix == "" {
		return kv
	}
	return &Namespaced{kv: kv, prefix: prefix}
}

// SessionPrefix returns the key namespace of a shopper session.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.prefix+key)
}

func (n *Namespaced) Ping(ctx context.Context) error { return n.kv.Ping(ctx) }

// Close is a no-op; the underlying store is closed by its owner.
func (n *Namespaced) Close() error { return nil }
