package atom

import "testing"

func TestNormalizeHashNeverZero(t *testing.T) {
	if got := normalizeHash(0); got == 0 {
		t.Errorf("normalizeHash(0) = 0, want nonzero")
	}
	if got := normalizeHash(42); got != 42 {
		t.Errorf("normalizeHash(42) = %d, want 42", got)
	}
}

func TestReduce32InRange(t *testing.T) {
	sizes := []int{1, 2, 16, 1024}
	for _, size := range sizes {
		for _, h := range []uint32{0, 1, 0xffffffff, 0x9e3779b9} {
			if got := reduce32(h, size); got < 0 || got >= size {
				t.Errorf("reduce32(%#x, %d) = %d, out of [0, %d)", h, size, got, size)
			}
		}
	}
}

func TestMurmur32Deterministic(t *testing.T) {
	a := murmur32([]byte("the quick brown fox"), 0)
	b := murmur32([]byte("the quick brown fox"), 0)
	if a != b {
		t.Errorf("murmur32 is not deterministic: %#x != %#x", a, b)
	}
	if c := murmur32([]byte("the quick brown fog"), 0); c == a {
		t.Errorf("murmur32 collided on a single-byte difference (allowed, but suspicious): %#x", c)
	}
	if murmur32(nil, 0) == 0 {
		t.Errorf("murmur32(nil) should be normalized away from zero")
	}
}

func TestHashBytesConsistentWithCRC32C(t *testing.T) {
	if hashBytes([]byte("PATH")) != hashBytes([]byte("PATH")) {
		t.Errorf("hashBytes not deterministic")
	}
	if hashBytes(nil) == 0 {
		t.Errorf("hashBytes(nil) should be normalized away from zero")
	}
}
