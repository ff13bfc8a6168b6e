package sprt_test

import (
	"testing"

	"laptudirm.com/x/arbiter/internal/sprt"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		params sprt.Params
		ok     bool
	}{
		{"typical", sprt.Params{Elo0: 0, Elo1: 5, Alpha: 0.05, Beta: 0.05}, true},
		{"inverted elo", sprt.Params{Elo0: 5, Elo1: 0, Alpha: 0.05, Beta: 0.05}, false},
		{"alpha out of range", sprt.Params{Elo0: 0, Elo1: 5, Alpha: 1.5, Beta: 0.05}, false},
		{"zero beta", sprt.Params{Elo0: 0, Elo1: 5, Alpha: 0.05, Beta: 0}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.params.Validate(); (err == nil) != test.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, test.ok)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	p := sprt.Params{Elo0: 0, Elo1: 5, Alpha: 0.05, Beta: 0.05}

	lower, upper := p.Bounds()
	if lower >= 0 || upper <= 0 {
		t.Errorf("Bounds() = %f, %f; want lower < 0 < upper", lower, upper)
	}
	if lower != -upper {
		t.Errorf("symmetric alpha/beta should give symmetric bounds, got %f, %f", lower, upper)
	}
}

func TestLLR(t *testing.T) {
	p := sprt.Params{Elo0: 0, Elo1: 5, Alpha: 0.05, Beta: 0.05}

	// fewer than two distinct outcomes: no information yet
	if llr := p.LLR([3]int{0, 0, 10}); llr != 0 {
		t.Errorf("LLR of all-wins = %f, want 0", llr)
	}

	// a winning record supports H1, a losing one H0
	if llr := p.LLR([3]int{100, 200, 300}); llr <= 0 {
		t.Errorf("LLR of winning record = %f, want > 0", llr)
	}
	if llr := p.LLR([3]int{300, 200, 100}); llr >= 0 {
		t.Errorf("LLR of losing record = %f, want < 0", llr)
	}

	// more games, same proportions: more evidence
	small := p.LLR([3]int{10, 20, 30})
	large := p.LLR([3]int{100, 200, 300})
	if large <= small {
		t.Errorf("LLR should grow with sample size: %f -> %f", small, large)
	}
}
