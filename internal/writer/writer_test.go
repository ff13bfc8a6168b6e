package writer_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"laptudirm.com/x/arbiter/internal/writer"
)

// TestOrder pushes indices in a scrambled order and checks the output
// is nonetheless sequential.
func TestOrder(t *testing.T) {
	var out strings.Builder
	w := writer.New(&out)

	order := []int{3, 0, 2, 5, 1, 4, 7, 6}
	for _, idx := range order {
		if err := w.Push(idx, fmt.Sprintf("%d.", idx)); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := out.String(), "0.1.2.3.4.5.6.7."; got != want {
		t.Errorf("wrong output order: %q, want %q", got, want)
	}
}

// TestConcurrent hammers the writer from several goroutines; whatever
// the interleaving, the file must read in index order.
func TestConcurrent(t *testing.T) {
	var out strings.Builder
	w := writer.New(&out)

	const n = 100
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for idx := g; idx < n; idx += 4 {
				if err := w.Push(idx, fmt.Sprintf("%d\n", idx)); err != nil {
					t.Error(err)
				}
			}
		}(g)
	}
	wg.Wait()

	var want strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&want, "%d\n", i)
	}

	if out.String() != want.String() {
		t.Errorf("concurrent pushes flushed out of order")
	}
}
