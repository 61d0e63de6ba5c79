package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// fakeDocStore is an in-memory DocumentStore. Array appends are serialized
// under a mutex, mirroring the transactional append of the real store.
type fakeDocStore struct {
	mu         sync.Mutex
	nextID     int
	created    []createdDoc
	fields     map[string]map[string]any // "collection/id" -> patched fields
	createErrs map[string]error          // per-collection create failure
}

type createdDoc struct {
	collection string
	id         string
	data       any
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		fields:     make(map[string]map[string]any),
		createErrs: make(map[string]error),
	}
}

func (s *fakeDocStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErrs[collection]; err != nil {
		return "", err
	}
	s.nextID++
	id := fmt.Sprintf("%s-%d", collection, s.nextID)
	s.created = append(s.created, createdDoc{collection: collection, id: id, data: doc})
	s.fields[collection+"/"+id] = make(map[string]any)
	return id, nil
}

func (s *fakeDocStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.lookup(collection, id)
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	out := make(map[string]any)
	if raw, err := json.Marshal(doc.data); err == nil {
		_ = json.Unmarshal(raw, &out)
	}
	for k, v := range s.fields[collection+"/"+id] {
		out[k] = v
	}
	return out, nil
}

func (s *fakeDocStore) SetField(ctx context.Context, collection, id, fieldPath string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(collection, id); !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	s.fields[collection+"/"+id][fieldPath] = value
	return nil
}

func (s *fakeDocStore) AppendToArray(ctx context.Context, collection, id, fieldPath string, item any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(collection, id); !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	current, _ := s.fields[collection+"/"+id][fieldPath].([]any)
	s.fields[collection+"/"+id][fieldPath] = append(current, item)
	return nil
}

func (s *fakeDocStore) lookup(collection, id string) (createdDoc, bool) {
	for _, doc := range s.created {
		if doc.collection == collection && doc.id == id {
			return doc, true
		}
	}
	return createdDoc{}, false
}

// createdIn returns the documents created in one collection, in order.
func (s *fakeDocStore) createdIn(collection string) []createdDoc {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []createdDoc
	for _, doc := range s.created {
		if doc.collection == collection {
			out = append(out, doc)
		}
	}
	return out
}

func (s *fakeDocStore) fieldsOf(collection, id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any)
	for k, v := range s.fields[collection+"/"+id] {
		out[k] = v
	}
	return out
}

// fakeAssets is an in-memory AssetStore with scriptable failures.
type fakeAssets struct {
	mu         sync.Mutex
	objects    map[string][]byte
	order      []string
	puts       int
	failFirst  int  // fail this many Puts before succeeding
	failAlways bool // every Put fails
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{objects: make(map[string][]byte)}
}

func (a *fakeAssets) Put(ctx context.Context, key, contentType string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.puts++
	if a.failAlways || a.puts <= a.failFirst {
		return fmt.Errorf("simulated storage outage")
	}
	a.objects[key] = append([]byte(nil), data...)
	a.order = append(a.order, key)
	return nil
}

// newTestUploader returns an uploader whose backoff sleeps are recorded
// instead of slept.
func newTestUploader(assets AssetStore, slept *[]string) *Uploader {
	u := NewUploader(assets)
	u.sleep = func(d time.Duration) {
		if slept != nil {
			*slept = append(*slept, d.String())
		}
	}
	return u
}
