package job

import "sync"

// AnalyzeKey is shared by every batch analysis: the selection is analyzed in one
// combined call, so only one of those may run at a time.
const AnalyzeKey = "analyze"

func RespondKey(questionId string) string {
	return "respond:" + questionId
}

// InFlight tracks which logical operations are currently running.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]struct{})}
}

// TryAcquire marks key as busy. It returns false if the key is already held.
func (f *InFlight) TryAcquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.busy[key]; held {
		return false
	}
	f.busy[key] = struct{}{}
	return true
}

func (f *InFlight) Release(key string) {
	if key == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, key)
}

func (f *InFlight) IsBusy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, held := f.busy[key]
	return held
}
