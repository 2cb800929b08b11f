package pool

import (
	"testing"
	"time"
)

func TestTimer_Fires(t *testing.T) {
	timer := GetTimer(10 * time.Millisecond)
	defer PutTimer(timer)

	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestTimer_ReuseDoesNotFireEarly(t *testing.T) {
	first := GetTimer(time.Millisecond)
	time.Sleep(5 * time.Millisecond) // expired, value left unread
	PutTimer(first)

	second := GetTimer(200 * time.Millisecond)
	defer PutTimer(second)

	select {
	case <-second.C:
		t.Fatal("reused timer delivered a stale expiry")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimer_Stop(t *testing.T) {
	timer := GetTimer(20 * time.Millisecond)
	PutTimer(timer)

	select {
	case <-timer.C:
		t.Fatal("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}
