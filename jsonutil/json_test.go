package jsonutil

import "testing"

type sample struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sample{Name: "a", N: 3}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMarshalIndentProducesMultipleLines(t *testing.T) {
	data, err := MarshalIndent(sample{Name: "a", N: 1}, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestSetConfigIsRespected(t *testing.T) {
	orig := GetConfig()
	defer SetConfig(orig)

	called := false
	SetConfig(Config{
		Marshal: func(v any) ([]byte, error) {
			called = true
			return orig.Marshal(v)
		},
		MarshalIndent: orig.MarshalIndent,
		Unmarshal:     orig.Unmarshal,
		NewEncoder:    orig.NewEncoder,
		NewDecoder:    orig.NewDecoder,
	})

	if _, err := Marshal(sample{}); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !called {
		t.Fatal("expected custom Marshal to be invoked")
	}
}
