package base

import "testing"

func TestLeapArray_CurrentBucketAccumulatesWithinSameWindow(t *testing.T) {
	la := NewLeapArray(2, 1000, 4900)

	la.CurrentBucket(0).AddPass(1)
	la.CurrentBucket(100).AddPass(1)
	la.CurrentBucket(499).AddPass(1)

	b := la.CurrentBucket(499)
	if got := b.Pass(); got != 3 {
		t.Fatalf("Pass() = %d, want 3", got)
	}
}

func TestLeapArray_CurrentBucketRecyclesStaleSlot(t *testing.T) {
	la := NewLeapArray(2, 1000, 4900)

	la.CurrentBucket(0).AddPass(5)
	// one full interval later, the same slot index must have reset.
	b := la.CurrentBucket(1000)
	if got := b.Pass(); got != 0 {
		t.Fatalf("Pass() after recycle = %d, want 0", got)
	}
}

func TestLeapArray_ValidBucketsExcludesExpired(t *testing.T) {
	la := NewLeapArray(2, 1000, 4900)

	la.CurrentBucket(0).AddPass(3)
	la.CurrentBucket(500).AddPass(2)

	valid := la.ValidBuckets(500)
	var total int64
	for _, b := range valid {
		total += b.Pass()
	}
	if total != 5 {
		t.Fatalf("ValidBuckets total = %d, want 5", total)
	}

	// advance well past the interval: the old bucket is now expired.
	valid = la.ValidBuckets(2500)
	total = 0
	for _, b := range valid {
		total += b.Pass()
	}
	if total != 0 {
		t.Fatalf("ValidBuckets total after expiry = %d, want 0", total)
	}
}

func TestLeapArray_PreviousWindowBucket(t *testing.T) {
	la := NewLeapArray(2, 1000, 4900)

	la.CurrentBucket(0).AddPass(7)
	prev := la.PreviousWindowBucket(500)
	if prev == nil {
		t.Fatal("PreviousWindowBucket returned nil, want the bucket starting at 0")
	}
	if got := prev.Pass(); got != 7 {
		t.Fatalf("PreviousWindowBucket.Pass() = %d, want 7", got)
	}
}

func TestLeapArray_Reset(t *testing.T) {
	la := NewLeapArray(2, 1000, 4900)
	la.CurrentBucket(0).AddPass(9)
	la.Reset()

	if got := la.CurrentBucket(0).Pass(); got != 0 {
		t.Fatalf("Pass() after Reset = %d, want 0", got)
	}
}
