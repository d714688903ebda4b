// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"errors"
	"reflect"
	"testing"
	"testing/quick"

	"code.hybscloud.com/csp"
	"code.hybscloud.com/iox"
)

func drain[T any](t *testing.T, s csp.DataStore[T]) []T {
	t.Helper()
	var out []T
	for s.State() != csp.Empty {
		v, err := s.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		out = append(out, v)
	}
	return out
}

func putAll[T any](t *testing.T, s csp.DataStore[T], vs ...T) {
	t.Helper()
	for _, v := range vs {
		if err := s.Put(v); err != nil {
			t.Fatalf("Put(%v): %v", v, err)
		}
	}
}

func TestZeroBuffer(t *testing.T) {
	s := csp.NewZeroBuffer[string]()
	if s.State() != csp.Empty {
		t.Fatalf("State: got %v, want Empty", s.State())
	}
	putAll[string](t, s, "a")
	if s.State() != csp.Full {
		t.Fatalf("State: got %v, want Full", s.State())
	}
	if err := s.Put("b"); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("Put on full: got %v, want ErrWouldBlock", err)
	}
	v, err := s.StartGet()
	if err != nil || v != "a" {
		t.Fatalf("StartGet: got %q, %v", v, err)
	}
	if s.State() != csp.Full {
		t.Fatalf("State during extended get: got %v, want Full", s.State())
	}
	s.EndGet()
	if s.State() != csp.Empty {
		t.Fatalf("State after EndGet: got %v, want Empty", s.State())
	}
	if _, err := s.Get(); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("Get on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestBufferFIFO(t *testing.T) {
	s, err := csp.NewBuffer[int](3)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	putAll[int](t, s, 1, 2)
	if s.State() != csp.NonEmptyFull {
		t.Fatalf("State: got %v, want NonEmptyFull", s.State())
	}
	putAll[int](t, s, 3)
	if s.State() != csp.Full {
		t.Fatalf("State: got %v, want Full", s.State())
	}
	if err := s.Put(4); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("Put on full: got %v, want ErrWouldBlock", err)
	}
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("drain: got %v", got)
	}
}

func TestBufferCapacityOne(t *testing.T) {
	s, err := csp.NewBuffer[int](1)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if s.Cap() != 1 {
		t.Fatalf("Cap: got %d, want 1", s.Cap())
	}
	putAll[int](t, s, 7)
	if s.State() != csp.Full {
		t.Fatalf("State: got %v, want Full", s.State())
	}
	if err := s.Put(8); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("Put on full: got %v, want ErrWouldBlock", err)
	}
}

func TestBufferExtendedGet(t *testing.T) {
	s, _ := csp.NewBuffer[int](2)
	putAll[int](t, s, 1, 2)
	v, err := s.StartGet()
	if err != nil || v != 1 {
		t.Fatalf("StartGet: got %d, %v", v, err)
	}
	// A repeated StartGet sees the same head.
	if v, _ := s.StartGet(); v != 1 {
		t.Fatalf("second StartGet: got %d, want 1", v)
	}
	if s.Len() != 2 {
		t.Fatalf("Len during extended get: got %d, want 2", s.Len())
	}
	s.EndGet()
	s.EndGet() // no-op without a peek
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("drain: got %v", got)
	}
}

func TestOverflowingBufferDropsNewest(t *testing.T) {
	s, err := csp.NewOverflowingBuffer[int](2)
	if err != nil {
		t.Fatalf("NewOverflowingBuffer: %v", err)
	}
	putAll[int](t, s, 1, 2, 3, 4)
	if s.State() != csp.NonEmptyFull {
		t.Fatalf("State: got %v, want NonEmptyFull", s.State())
	}
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("drain: got %v", got)
	}
}

func TestOverwriteOldestBuffer(t *testing.T) {
	s, err := csp.NewOverwriteOldestBuffer[int](3)
	if err != nil {
		t.Fatalf("NewOverwriteOldestBuffer: %v", err)
	}
	putAll[int](t, s, 1, 2, 3, 4, 5)
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{3, 4, 5}) {
		t.Fatalf("drain: got %v", got)
	}
}

func TestOverwriteOldestExtendedGetEvicted(t *testing.T) {
	s, _ := csp.NewOverwriteOldestBuffer[int](1)
	putAll[int](t, s, 1)
	v, err := s.StartGet()
	if err != nil || v != 1 {
		t.Fatalf("StartGet: got %d, %v", v, err)
	}
	putAll[int](t, s, 2) // evicts the peeked value
	s.EndGet()
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("drain after evicted peek: got %v, want [2]", got)
	}
}

func TestOverwritingBufferReplacesNewest(t *testing.T) {
	s, err := csp.NewOverwritingBuffer[int](3)
	if err != nil {
		t.Fatalf("NewOverwritingBuffer: %v", err)
	}
	putAll[int](t, s, 1, 2, 3, 4, 5)
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{1, 2, 5}) {
		t.Fatalf("drain: got %v", got)
	}
}

func TestOverwritingExtendedGetReplaced(t *testing.T) {
	s, _ := csp.NewOverwritingBuffer[int](1)
	putAll[int](t, s, 1)
	if _, err := s.StartGet(); err != nil {
		t.Fatalf("StartGet: %v", err)
	}
	putAll[int](t, s, 9)
	s.EndGet()
	if got := drain[int](t, s); !reflect.DeepEqual(got, []int{9}) {
		t.Fatalf("drain after replaced peek: got %v, want [9]", got)
	}
}

func TestInfiniteBufferGrows(t *testing.T) {
	s, err := csp.NewInfiniteBuffer[int](2)
	if err != nil {
		t.Fatalf("NewInfiniteBuffer: %v", err)
	}
	// Interleave to wrap the ring before it grows.
	putAll[int](t, s, 0, 1)
	if v, _ := s.Get(); v != 0 {
		t.Fatalf("Get: got %d, want 0", v)
	}
	for i := 2; i < 100; i++ {
		putAll[int](t, s, i)
		if s.State() == csp.Full {
			t.Fatalf("infinite buffer reported Full at %d values", s.Len())
		}
	}
	got := drain[int](t, s)
	if len(got) != 99 {
		t.Fatalf("drain: got %d values, want 99", len(got))
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("drain[%d]: got %d, want %d", i, v, i+1)
		}
	}
}

func TestStoreCapacityErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"buffer", func() error { _, err := csp.NewBuffer[int](0); return err }()},
		{"overflowing", func() error { _, err := csp.NewOverflowingBuffer[int](-1); return err }()},
		{"overwrite-oldest", func() error { _, err := csp.NewOverwriteOldestBuffer[int](0); return err }()},
		{"overwriting", func() error { _, err := csp.NewOverwritingBuffer[int](0); return err }()},
		{"infinite", func() error { _, err := csp.NewInfiniteBuffer[int](-3); return err }()},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, csp.ErrBufferCapacity) {
			t.Errorf("%s: got %v, want ErrBufferCapacity", tc.name, tc.err)
		}
		var ce *csp.BufferCapacityError
		if !errors.As(tc.err, &ce) {
			t.Errorf("%s: error is not a *BufferCapacityError", tc.name)
		}
	}
	if _, err := csp.NewInfiniteBuffer[int](0); err != nil {
		t.Fatalf("NewInfiniteBuffer(0): %v", err)
	}
}

func TestStoreCloneIsEmpty(t *testing.T) {
	b, _ := csp.NewBuffer[int](2)
	o, _ := csp.NewOverflowingBuffer[int](2)
	w, _ := csp.NewOverwriteOldestBuffer[int](2)
	n, _ := csp.NewOverwritingBuffer[int](2)
	inf, _ := csp.NewInfiniteBuffer[int](2)
	stores := []csp.DataStore[int]{csp.NewZeroBuffer[int](), b, o, w, n, inf}
	for _, s := range stores {
		putAll[int](t, s, 1)
		c := s.Clone()
		if c.State() != csp.Empty {
			t.Errorf("%T clone: got %v, want Empty", s, c.State())
		}
		putAll[int](t, c, 5)
		if v, _ := s.Get(); v != 1 {
			t.Errorf("%T: clone shares storage with the prototype", s)
		}
	}
}

func TestStoreRemoveAll(t *testing.T) {
	b, _ := csp.NewBuffer[int](4)
	inf, _ := csp.NewInfiniteBuffer[int](1)
	for _, s := range []csp.DataStore[int]{b, inf} {
		putAll[int](t, s, 1, 2, 3)
		if _, err := s.StartGet(); err != nil {
			t.Fatalf("%T StartGet: %v", s, err)
		}
		s.RemoveAll()
		s.EndGet()
		if s.State() != csp.Empty || s.Len() != 0 {
			t.Fatalf("%T after RemoveAll: state %v, len %d", s, s.State(), s.Len())
		}
		putAll[int](t, s, 4)
		if got := drain[int](t, s); !reflect.DeepEqual(got, []int{4}) {
			t.Fatalf("%T drain: got %v", s, got)
		}
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[csp.State]string{
		csp.Empty:        "empty",
		csp.NonEmptyFull: "nonempty",
		csp.Full:         "full",
	} {
		if s.String() != want {
			t.Errorf("String: got %q, want %q", s.String(), want)
		}
	}
}

// TestPropertyInfiniteBufferFIFO proves that the unbounded store returns
// any sequence in order, however puts and gets interleave.
func TestPropertyInfiniteBufferFIFO(t *testing.T) {
	property := func(payload []int16, getEvery uint8) bool {
		s, _ := csp.NewInfiniteBuffer[int16](1)
		k := int(getEvery%4) + 1
		var out []int16
		for i, v := range payload {
			_ = s.Put(v)
			if i%k == 0 {
				got, err := s.Get()
				if err != nil {
					return false
				}
				out = append(out, got)
			}
		}
		for s.State() != csp.Empty {
			got, _ := s.Get()
			out = append(out, got)
		}
		if len(payload) == 0 {
			return len(out) == 0
		}
		return reflect.DeepEqual(payload, out)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyBufferFIFO proves the lfq-backed store keeps order within its
// capacity.
func TestPropertyBufferFIFO(t *testing.T) {
	skipRace(t)

	property := func(payload []int, capacity uint8) bool {
		c := int(capacity%16) + 1
		s, err := csp.NewBuffer[int](c)
		if err != nil {
			return false
		}
		var out []int
		for _, v := range payload {
			if s.State() == csp.Full {
				got, _ := s.Get()
				out = append(out, got)
			}
			if s.Put(v) != nil {
				return false
			}
		}
		for s.State() != csp.Empty {
			got, _ := s.Get()
			out = append(out, got)
		}
		if len(payload) == 0 {
			return len(out) == 0
		}
		return reflect.DeepEqual(payload, out)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
