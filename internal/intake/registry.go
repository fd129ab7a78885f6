package intake

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ReferenceRegistry закрепляет внешние ссылки за происшествиями
type ReferenceRegistry interface {
	// Claim закрепляет ссылку за id. Если ссылка уже занята, возвращает прежний id и claimed=false.
	Claim(ctx context.Context, ref string, id uuid.UUID) (existing uuid.UUID, claimed bool, err error)
	Lookup(ctx context.Context, ref string) (uuid.UUID, bool, error)
	Forget(ctx context.Context, ref string) error
}

// MemoryRegistry - реестр ссылок в памяти процесса
type MemoryRegistry struct {
	mu   sync.Mutex
	refs map[string]uuid.UUID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{refs: make(map[string]uuid.UUID)}
}

func (r *MemoryRegistry) Claim(_ context.Context, ref string, id uuid.UUID) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.refs[ref]; ok {
		return existing, false, nil
	}
	r.refs[ref] = id
	return id, true, nil
}

func (r *MemoryRegistry) Lookup(_ context.Context, ref string) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.refs[ref]
	return id, ok, nil
}

func (r *MemoryRegistry) Forget(_ context.Context, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.refs, ref)
	return nil
}
