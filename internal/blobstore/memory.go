package blobstore

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and by the memory: backend
// for local development. Presigned URLs point at a reserved placeholder
// host; they carry the scope and expiry in the query string so the front
// end renders, but they grant nothing.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

// SetClock overrides the modification-time source. Test hook.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// EnsureBucket is a no-op; the map is the bucket.
func (m *Memory) EnsureBucket(ctx context.Context) error {
	return ctx.Err()
}

// Get returns a copy of the object body, or ErrNotExist.
func (m *Memory) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[name]
	if !ok {
		return nil, ErrNotExist
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// Put stores a copy of the object body.
func (m *Memory) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[name] = memoryObject{
		data:         stored,
		contentType:  contentType,
		lastModified: m.now().UTC(),
	}
	return nil
}

// List enumerates every stored object.
func (m *Memory) List(ctx context.Context) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]ObjectInfo, 0, len(m.objects))
	for name, obj := range m.objects {
		infos = append(infos, ObjectInfo{
			Name:         name,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	return infos, nil
}

// PresignGet returns a deterministic placeholder read URL. Never fails for
// missing objects; issuance is independent of existence.
func (m *Memory) PresignGet(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.fakeURL(name, "read", expiry), nil
}

// PresignPut returns a deterministic placeholder write URL.
func (m *Memory) PresignPut(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.fakeURL(name, "write", expiry), nil
}

func (m *Memory) fakeURL(name, scope string, expiry time.Duration) string {
	return fmt.Sprintf("https://blob.invalid/videos/%s?scope=%s&expires=%d",
		url.PathEscape(name), scope, int64(expiry.Seconds()))
}
