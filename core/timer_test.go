package core

import "testing"

func TestTimerQueueOrder(t *testing.T) {
	var q TimerQueue
	var fired []uint32

	handler := func(tm *Timer) uint8 {
		fired = append(fired, tm.WakeTime)
		return SF_DONE
	}

	timers := []*Timer{
		{WakeTime: 30, Handler: handler},
		{WakeTime: 10, Handler: handler},
		{WakeTime: 20, Handler: handler},
	}
	for _, tm := range timers {
		q.Schedule(tm)
	}
	if q.Pending() != 3 {
		t.Fatalf("Expected 3 pending timers, got %d", q.Pending())
	}

	q.Dispatch(9)
	if len(fired) != 0 {
		t.Errorf("Expected nothing due at 9, got %v", fired)
	}

	q.Dispatch(20)
	if len(fired) != 2 || fired[0] != 10 || fired[1] != 20 {
		t.Errorf("Expected [10 20], got %v", fired)
	}

	q.Dispatch(100)
	if len(fired) != 3 || q.Pending() != 0 {
		t.Errorf("Expected every timer fired, got %v with %d pending", fired, q.Pending())
	}
}

func TestTimerQueueReschedule(t *testing.T) {
	var q TimerQueue
	count := 0

	tm := &Timer{WakeTime: 5}
	tm.Handler = func(tm *Timer) uint8 {
		count++
		if count < 3 {
			tm.WakeTime += 5
			return SF_RESCHEDULE
		}
		return SF_DONE
	}
	q.Schedule(tm)

	for now := uint32(0); now <= 30; now++ {
		q.Dispatch(now)
	}
	if count != 3 {
		t.Errorf("Expected 3 runs, got %d", count)
	}
	if tm.WakeTime != 15 {
		t.Errorf("Expected last wake time 15, got %d", tm.WakeTime)
	}
}

func TestTimerQueueScheduleMovesAndCancel(t *testing.T) {
	var q TimerQueue
	fired := 0
	tm := &Timer{WakeTime: 10, Handler: func(*Timer) uint8 { fired++; return SF_DONE }}

	q.Schedule(tm)
	tm.WakeTime = 50
	q.Schedule(tm)
	if q.Pending() != 1 {
		t.Fatalf("Rescheduling must not duplicate a timer, got %d pending", q.Pending())
	}

	q.Dispatch(20)
	if fired != 0 {
		t.Error("Moved timer fired at its old wake time")
	}

	if !q.Cancel(tm) {
		t.Error("Expected Cancel to report a queued timer")
	}
	if q.Cancel(tm) {
		t.Error("Expected second Cancel to report nothing")
	}
	q.Dispatch(100)
	if fired != 0 {
		t.Error("Cancelled timer fired")
	}
}
