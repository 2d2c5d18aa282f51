package allocator

import "testing"

func TestBlockTagRoundTrip(t *testing.T) {
	t.Run("FreeBlock", func(t *testing.T) {
		tag := packTag(64, false)
		if blockSize(tag) != 64 {
			t.Errorf("blockSize = %d, want 64", blockSize(tag))
		}

		if blockUsed(tag) {
			t.Error("expected FREE, got USED")
		}
	})

	t.Run("UsedBlock", func(t *testing.T) {
		tag := packTag(128, true)
		if blockSize(tag) != 128 {
			t.Errorf("blockSize = %d, want 128", blockSize(tag))
		}

		if !blockUsed(tag) {
			t.Error("expected USED, got FREE")
		}
	})
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ n, a, want uintptr }{
		{0, 16, 0},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{33, 16, 48},
	}

	for _, c := range cases {
		if got := alignUp(c.n, c.a); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestBlockRequestSize(t *testing.T) {
	cases := []struct{ requested, want uintptr }{
		{0, 16},
		{1, 16},
		{8, 16},
		{9, 32},
		{40, 48},
	}

	for _, c := range cases {
		if got := blockRequestSize(c.requested); got != c.want {
			t.Errorf("blockRequestSize(%d) = %d, want %d", c.requested, got, c.want)
		}

		if got := blockRequestSize(c.requested); got%Align != 0 {
			t.Errorf("blockRequestSize(%d) = %d is not Align-aligned", c.requested, got)
		}
	}
}

func TestPayloadHeaderRoundTrip(t *testing.T) {
	const addr uintptr = 400

	payload := payloadAddr(addr)
	if headerFromPayload(payload) != addr {
		t.Errorf("headerFromPayload(payloadAddr(%d)) = %d, want %d", addr, headerFromPayload(payload), addr)
	}
}

func TestHeapViewStamp(t *testing.T) {
	hv := &heapView{bytes: make([]byte, 256)}
	hv.stamp(64, 48, true)

	if hv.sizeOf(64) != 48 {
		t.Errorf("sizeOf = %d, want 48", hv.sizeOf(64))
	}

	if !hv.isUsed(64) {
		t.Error("expected USED after stamp(..., true)")
	}

	if hv.header(64) != hv.u32(footerAddr(64, 48)) {
		t.Error("header and footer diverged after stamp (I2)")
	}
}
