package alloc

import (
	"sync"
	"testing"
)

func TestPoolExhaustion(t *testing.T) {
	p, err := NewPool(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	a, _ := p.Acquire(0)
	b, _ := p.Acquire(0)
	if a == nil || b == nil || a == b {
		t.Error("expected two distinct pages")
	}

	if _, err := p.Acquire(0); err == nil {
		t.Error("expected exhaustion error")
	}

	p.Release(0, a)
	if c, err := p.Acquire(0); err != nil || c != a {
		t.Error("expected the released page back")
	}
}

func TestPoolPerWorkerIsolation(t *testing.T) {
	nWorkers := 8
	n := 1024

	p, err := NewPool(nWorkers, n)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			pages := make([]Handle, 0, n)
			for i := 0; i < n; i++ {
				h, err := p.Acquire(w)
				if err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
				pages = append(pages, h)
			}
			for _, h := range pages {
				p.Release(w, h)
			}
		}(w)
	}
	wg.Wait()
}

func TestPoolRejectsZeroWorkers(t *testing.T) {
	if _, err := NewPool(0, 1); err == nil {
		t.Error("expected an error")
	}
}

func TestNewByName(t *testing.T) {
	for _, name := range []string{"heap", "pool"} {
		a, err := New(name, 4)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		a.Close()
	}

	if _, err := New("bogus", 4); err == nil {
		t.Error("expected unknown backend error")
	}
}
