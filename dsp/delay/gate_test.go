package delay

import "testing"

func TestNewGateValidation(t *testing.T) {
	if _, err := NewGate[float64](-1); err == nil {
		t.Fatal("expected error for negative threshold")
	}
}

func TestGateThreshold(t *testing.T) {
	for _, threshold := range []int{0, 1, 3, 10} {
		g, err := NewGate[float64](threshold)
		if err != nil {
			t.Fatal(err)
		}

		for k := 1; k <= threshold+5; k++ {
			in := []float64{float64(k), -float64(k)}
			g.Read(in)
			out := g.Write()

			if k <= threshold {
				if len(out) != 0 {
					t.Fatalf("threshold %d, value %d: got %v, want empty", threshold, k, out)
				}
				if g.Active() {
					t.Fatalf("threshold %d, value %d: active during warm-up", threshold, k)
				}
				continue
			}
			if len(out) != 2 || out[0] != float64(k) || out[1] != -float64(k) {
				t.Fatalf("threshold %d, value %d: got %v, want %v", threshold, k, out, in)
			}
			if !g.Active() {
				t.Fatalf("threshold %d, value %d: not active", threshold, k)
			}
		}
		if g.Count() != threshold+5 {
			t.Fatalf("count = %d, want %d", g.Count(), threshold+5)
		}
	}
}

func TestGateEmptyBeforeAnyRead(t *testing.T) {
	g, err := NewGate[float64](0)
	if err != nil {
		t.Fatal(err)
	}
	if out := g.Write(); out == nil || len(out) != 0 {
		t.Fatalf("initial snapshot = %#v, want empty non-nil", out)
	}
}

func TestGateSnapshotNotMutatedByReplacement(t *testing.T) {
	g, err := NewGate[float64](0)
	if err != nil {
		t.Fatal(err)
	}

	g.Read([]float64{1, 2, 3})
	held := g.Write()
	g.Read([]float64{4, 5, 6})

	if held[0] != 1 || held[2] != 3 {
		t.Fatalf("earlier snapshot changed to %v", held)
	}
	if g.Write()[0] != 4 {
		t.Fatalf("new snapshot = %v, want [4 5 6]", g.Write())
	}
}

func TestGatePassesEmptyOnceActive(t *testing.T) {
	g, err := NewGate[float64](1)
	if err != nil {
		t.Fatal(err)
	}

	g.Read([]float64{1})
	g.Read([]float64{2})
	g.Read(nil)
	if out := g.Write(); len(out) != 0 {
		t.Fatalf("got %v, want the empty inbound value echoed", out)
	}
}
