package particles

import "testing"

func TestSimplexFieldRange(t *testing.T) {
	field := NewSimplexField(42, 0.5)
	for i := 0; i < 500; i++ {
		v := field.Sample(float64(i)*0.37, float64(i)*0.71)
		if v < 0 || v > 1 {
			t.Fatalf("sample %d outside [0, 1]: %f", i, v)
		}
	}
}

func TestSimplexFieldDeterministic(t *testing.T) {
	a := NewSimplexField(7, 1)
	b := NewSimplexField(7, 1)
	for i := 0; i < 100; i++ {
		u, v := float64(i)*0.13, float64(i)*0.29
		if a.Sample(u, v) != b.Sample(u, v) {
			t.Fatal("same seed produced different fields")
		}
	}
}

func TestSimplexFieldVaries(t *testing.T) {
	field := NewSimplexField(42, 1)
	first := field.Sample(0.1, 0.2)
	varied := false
	for i := 1; i < 50; i++ {
		if field.Sample(float64(i)*0.41, float64(i)*0.17) != first {
			varied = true
			break
		}
	}
	if !varied {
		t.Error("field is constant")
	}
}

func TestSignedMapping(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, -1},
		{0.5, 0},
		{1, 1},
	}
	for _, c := range cases {
		if got := signed(c.in); got != c.want {
			t.Errorf("signed(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
