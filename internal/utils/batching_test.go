package utils

import "testing"

func TestChunk(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int
	}{
		{0, 10, nil},
		{5, 10, []int{5}},
		{10, 5, []int{5, 5}},
		{11, 5, []int{5, 5, 1}},
		{3, 0, []int{3}},
	}

	for _, tt := range tests {
		items := make([]int, tt.n)
		for i := range items {
			items[i] = i
		}
		batches := Chunk(items, tt.size)
		if len(batches) != len(tt.want) {
			t.Errorf("Chunk(%d, %d): expected %d batches, got %d", tt.n, tt.size, len(tt.want), len(batches))
			continue
		}
		next := 0
		for i, batch := range batches {
			if len(batch) != tt.want[i] {
				t.Errorf("Chunk(%d, %d): batch %d has %d items, want %d", tt.n, tt.size, i, len(batch), tt.want[i])
			}
			for _, v := range batch {
				if v != next {
					t.Fatalf("Chunk(%d, %d): order broken, got %d want %d", tt.n, tt.size, v, next)
				}
				next++
			}
		}
	}
}
