package vector

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical non-zero vector scores 1",
			a:    []float32{0.3, 0.4, 0.5},
			b:    []float32{0.3, 0.4, 0.5},
			want: 1.0,
		},
		{
			name: "orthogonal vectors score 0",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors score -1",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1.0,
		},
		{
			name: "zero vector scores 0 against anything",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "both zero vectors score 0",
			a:    []float32{0, 0},
			b:    []float32{0, 0},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineWithNorms(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0}
	got := CosineWithNorms(a, 1.0, b, 1.0)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineWithNorms() = %v, want 1.0", got)
	}

	// Zero norms must short-circuit, never divide.
	if got := CosineWithNorms(a, 0, b, 1.0); got != 0 {
		t.Errorf("CosineWithNorms() with zero norm = %v, want 0", got)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.14159, 0}
	blob := EncodeBlob(in)
	if len(blob) != 16 {
		t.Fatalf("EncodeBlob() produced %d bytes, want 16", len(blob))
	}

	out, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("DecodeBlob() error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("DecodeBlob() returned %d values, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("value %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestDecodeBlobRejectsBadLength(t *testing.T) {
	if _, err := DecodeBlob([]byte{1, 2, 3}); err == nil {
		t.Error("DecodeBlob() accepted a blob of length 3, want error")
	}
}

func TestMMRPureRelevance(t *testing.T) {
	// lambda=1 must reproduce the relevance ordering exactly.
	pool := []Candidate{
		{ID: 1, Relevance: 0.2, Embedding: []float32{1, 0}, Norm: 1},
		{ID: 2, Relevance: 0.9, Embedding: []float32{0, 1}, Norm: 1},
		{ID: 3, Relevance: 0.5, Embedding: []float32{1, 1}, Norm: float64(math.Sqrt2)},
	}

	got := MMR(pool, 1.0, 3)
	want := []int{1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("MMR() selected %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMMRDiversityAvoidsDuplicates(t *testing.T) {
	// Two exact duplicates plus one distinct vector. With lambda=0 the
	// second pick must be the distinct one, not the duplicate.
	pool := []Candidate{
		{ID: 1, Relevance: 0.9, Embedding: []float32{1, 0}, Norm: 1},
		{ID: 2, Relevance: 0.89, Embedding: []float32{1, 0}, Norm: 1},
		{ID: 3, Relevance: 0.3, Embedding: []float32{0, 1}, Norm: 1},
	}

	got := MMR(pool, 0.0, 2)
	if len(got) != 2 {
		t.Fatalf("MMR() selected %d, want 2", len(got))
	}
	if got[0] != 0 {
		t.Errorf("first pick = %d, want 0 (lowest id wins the all-equal first round)", got[0])
	}
	if got[1] != 2 {
		t.Errorf("second pick = %d, want 2 (the non-duplicate)", got[1])
	}
}

func TestMMRTieBreaksByLowerID(t *testing.T) {
	pool := []Candidate{
		{ID: 9, Relevance: 0.5, Embedding: []float32{1, 0}, Norm: 1},
		{ID: 2, Relevance: 0.5, Embedding: []float32{0, 1}, Norm: 1},
	}
	got := MMR(pool, 1.0, 1)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("MMR() = %v, want [1] (id 2 beats id 9 on equal score)", got)
	}
}

func TestMMRClampsInputs(t *testing.T) {
	pool := []Candidate{
		{ID: 1, Relevance: 0.5, Embedding: []float32{1, 0}, Norm: 1},
	}
	if got := MMR(pool, 1.5, 5); len(got) != 1 {
		t.Errorf("MMR() with k beyond pool = %v, want a single pick", got)
	}
	if got := MMR(pool, 0.5, 0); got != nil {
		t.Errorf("MMR() with k=0 = %v, want nil", got)
	}
	if got := MMR(nil, 0.5, 3); got != nil {
		t.Errorf("MMR() with empty pool = %v, want nil", got)
	}
}
