package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Dot returns the dot product of two vectors. Dimensions beyond the
// shorter vector are ignored.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean length of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity (q·c)/(|q||c|) of two vectors.
// A zero-length vector scores 0 against anything (never divides by zero).
func Cosine(a, b []float32) float64 {
	return CosineWithNorms(a, Norm(a), b, Norm(b))
}

// CosineWithNorms is Cosine for callers that already hold precomputed
// norms, e.g. chunk rows that store norm alongside the embedding blob.
func CosineWithNorms(a []float32, normA float64, b []float32, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}

// EncodeBlob packs a vector as little-endian float32 bytes for BLOB storage.
func EncodeBlob(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

// DecodeBlob unpacks a little-endian float32 BLOB back into a vector.
func DecodeBlob(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
