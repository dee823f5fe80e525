package utils

import (
	"strings"
	"sync"
)

var storeStoreInstance *stringStoreImpl
var stringStoreInitializer sync.Once

// StringStore interns strings that repeat across corpora, such as tag labels.
type StringStore interface {
	Intern(s string) string

	// methods to avoid memory leaks. When configured corpora are loaded the service locks string store.
	// when store is locked it doesn't save new strings
	Lock()
	IsLocked() bool
}

type stringStoreImpl struct {
	store    sync.Map //map[string]string
	mu       sync.RWMutex
	isLocked bool
}

func (stringStore *stringStoreImpl) Intern(s string) string {
	if v, ok := stringStore.store.Load(s); ok {
		return v.(string)
	}
	if stringStore.IsLocked() {
		return s
	}

	// s is often a slice of a much longer line
	s = strings.Clone(s)
	v, _ := stringStore.store.LoadOrStore(s, s)
	return v.(string)
}

func (stringStore *stringStoreImpl) Lock() {
	stringStore.mu.Lock()
	defer stringStore.mu.Unlock()
	stringStore.isLocked = true
}

func (stringStore *stringStoreImpl) IsLocked() bool {
	stringStore.mu.RLock()
	defer stringStore.mu.RUnlock()
	return stringStore.isLocked
}

func GlobalStringStore() StringStore {
	stringStoreInitializer.Do(func() {
		storeStoreInstance = new(stringStoreImpl)
	})

	return storeStoreInstance
}
