package preview

import (
	"testing"
	"time"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe("s1")
	defer cancel1()
	ch2, cancel2 := h.Subscribe("s1")
	defer cancel2()
	other, cancelOther := h.Subscribe("s2")
	defer cancelOther()

	h.Publish(Error{SessionID: "s1", Message: "boom"})

	for _, ch := range []<-chan Error{ch1, ch2} {
		select {
		case e := <-ch:
			if e.Message != "boom" || e.At.IsZero() {
				t.Fatalf("event = %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the error")
		}
	}
	select {
	case e := <-other:
		t.Fatalf("cross-session leak: %+v", e)
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("s1")
	cancel()
	cancel() // idempotent

	h.Publish(Error{SessionID: "s1", Message: "late"})
	if _, open := <-ch; open {
		t.Fatal("channel still open after cancel")
	}
	if h.Subscribers("s1") != 0 {
		t.Fatal("subscriber count not zero after cancel")
	}
}

func TestHubSlowSubscriberDrops(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("s1")
	defer cancel()

	for i := 0; i < 40; i++ {
		h.Publish(Error{SessionID: "s1", Message: "e"})
	}
	// Publisher never blocked; the buffer holds at most its capacity.
	if n := len(ch); n == 0 || n > cap(ch) {
		t.Fatalf("buffered = %d", n)
	}
}
