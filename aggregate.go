package roaring

import (
	"container/heap"
	"runtime"
	"sort"

	"github.com/kelindar/bitmap"
	"golang.org/x/sync/errgroup"
)

// FastOr returns the union of many bitmaps. Containers sharing a key are
// unioned lazily and their cardinality is computed once per key.
func FastOr(bitmaps ...*Bitmap) *Bitmap {
	h := make(keyHeap, 0, len(bitmaps))
	for _, b := range bitmaps {
		if !b.IsEmpty() {
			h = append(h, cursor{rb: b})
		}
	}

	heap.Init(&h)
	out := New()
	for h.Len() > 0 {
		key := h[0].key()

		var acc *container
		owned := false
		for h.Len() > 0 && h[0].key() == key {
			c := h[0].container()
			switch {
			case acc == nil:
				acc = c
			case owned:
				acc = acc.lazyIOr(c)
			default:
				acc, owned = acc.lazyOr(c), true
			}

			if h[0].pos++; h[0].pos < len(h[0].rb.index) {
				heap.Fix(&h, 0)
			} else {
				heap.Pop(&h)
			}
		}

		if owned {
			acc = acc.repairAfterLazy()
		} else {
			acc = acc.clone()
		}
		out.push(key, acc)
	}
	return out
}

// FastAnd returns the intersection of many bitmaps. Keys present in every input
// are found first, then the containers of each key are intersected starting
// with the smallest.
func FastAnd(bitmaps ...*Bitmap) *Bitmap {
	out := New()
	if len(bitmaps) == 0 {
		return out
	}

	keys := make([]bitmap.Bitmap, 0, len(bitmaps))
	for _, b := range bitmaps {
		if b.IsEmpty() {
			return out
		}

		present := make(bitmap.Bitmap, maxCapacity/64)
		for _, hi := range b.index {
			present.Set(uint32(hi))
		}
		keys = append(keys, present)
	}

	common := keys[0]
	if len(keys) > 1 {
		common.And(keys[1], keys[2:]...)
	}

	group := make([]*container, len(bitmaps))
	common.Range(func(k uint32) {
		for i, b := range bitmaps {
			pos, _ := b.find(uint16(k))
			group[i] = b.containers[pos]
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].cardinality() < group[j].cardinality()
		})

		acc := group[0].clone()
		for _, c := range group[1:] {
			if acc = acc.iand(c); acc.isEmpty() {
				break
			}
		}
		out.push(uint16(k), acc)
	})
	return out
}

// ParOr returns the union of many bitmaps, splitting the key space into
// ranges that are unioned concurrently. A parallelism of zero or less uses
// GOMAXPROCS. The inputs are only read.
func ParOr(parallelism int, bitmaps ...*Bitmap) *Bitmap {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	lo, hi := maxCapacity, -1
	for _, b := range bitmaps {
		if !b.IsEmpty() {
			lo = min(lo, int(b.index[0]))
			hi = max(hi, int(b.index[len(b.index)-1]))
		}
	}

	if hi < lo {
		return New()
	}

	span := hi - lo + 1
	width := (span + parallelism - 1) / parallelism
	parts := make([]*Bitmap, (span+width-1)/width)

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := range parts {
		from, until := lo+i*width, min(lo+(i+1)*width, hi+1)
		g.Go(func() error {
			views := make([]*Bitmap, 0, len(bitmaps))
			for _, b := range bitmaps {
				if v := b.keyRange(from, until); !v.IsEmpty() {
					views = append(views, v)
				}
			}

			parts[i] = FastOr(views...)
			return nil
		})
	}
	g.Wait() // workers never fail, the group only bounds concurrency

	out := New()
	for _, part := range parts {
		out.index = append(out.index, part.index...)
		out.containers = append(out.containers, part.containers...)
	}
	return out
}

// keyRange returns a read-only view of the containers with keys in [from, until)
func (rb *Bitmap) keyRange(from, until int) *Bitmap {
	if rb.IsEmpty() {
		return nil
	}

	i, j := arrLowerBound(rb.index, from), arrLowerBound(rb.index, until)
	return &Bitmap{
		index:      rb.index[i:j:j],
		containers: rb.containers[i:j:j],
	}
}

// cursor walks the containers of one bitmap during a FastOr
type cursor struct {
	rb  *Bitmap
	pos int
}

func (c cursor) key() uint16            { return c.rb.index[c.pos] }
func (c cursor) container() *container { return c.rb.containers[c.pos] }

// keyHeap orders cursors by their current key
type keyHeap []cursor

func (h keyHeap) Len() int           { return len(h) }
func (h keyHeap) Less(i, j int) bool { return h[i].key() < h[j].key() }
func (h keyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *keyHeap) Push(x any)        { *h = append(*h, x.(cursor)) }
func (h *keyHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
