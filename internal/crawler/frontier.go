package crawler

import "sync"

// frontier is the FIFO queue of URLs to fetch together with the visited set.
//
// Design decision: Both live behind one mutex so that the visited check and
// the insert happen atomically. Two workers discovering the same link, or
// redirected to the same destination, can never both claim it.
type frontier struct {
	mu      sync.Mutex
	queue   []string
	visited map[string]struct{}
}

func newFrontier() *frontier {
	return &frontier{visited: make(map[string]struct{})}
}

// claim marks u visited and reports whether it was unseen.
func (f *frontier) claim(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimLocked(u)
}

func (f *frontier) claimLocked(u string) bool {
	if _, ok := f.visited[u]; ok {
		return false
	}
	f.visited[u] = struct{}{}
	return true
}

// push claims u and enqueues it when it was unseen.
func (f *frontier) push(u string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.claimLocked(u) {
		return false
	}
	f.queue = append(f.queue, u)
	return true
}

// pop dequeues the oldest URL.
func (f *frontier) pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// sizes returns the queue length and the visited set size.
func (f *frontier) sizes() (queued, visited int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue), len(f.visited)
}
