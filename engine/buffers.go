package engine

import "sync"

// scanBuffers holds reusable value and pointer slices for row scanning.
// ptrs[i] always points at vals[i].
type scanBuffers struct {
	vals []any
	ptrs []any
}

var scanBufferPool = sync.Pool{
	New: func() any {
		return &scanBuffers{
			vals: make([]any, 0, 16),
			ptrs: make([]any, 0, 16),
		}
	},
}

func getScanBuffers(n int) *scanBuffers {
	b := scanBufferPool.Get().(*scanBuffers)
	if cap(b.vals) < n {
		b.vals = make([]any, n)
		b.ptrs = make([]any, n)
	} else {
		b.vals = b.vals[:n]
		b.ptrs = b.ptrs[:n]
	}
	for i := range b.vals {
		b.vals[i] = nil
		b.ptrs[i] = &b.vals[i]
	}
	return b
}

func putScanBuffers(b *scanBuffers) {
	for i := range b.vals {
		b.vals[i] = nil
		b.ptrs[i] = nil
	}
	scanBufferPool.Put(b)
}
