package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
	queued   bool
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// TimerQueue is a list of timers sorted by wake time. Dispatch runs in
// interrupt context (or at the top of the main loop) and the other methods
// run in the main loop; list updates are made with interrupts disabled.
// Handlers run with interrupts disabled and must not call back into the
// queue; they return SF_RESCHEDULE after moving WakeTime instead.
//
// Wake times are compared as plain uint32 milliseconds, so a timer
// scheduled across the tick counter wrap fires early.
type TimerQueue struct {
	list *Timer
}

// Schedule adds t to the queue, moving it if it is already queued
func (q *TimerQueue) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if t.queued {
		q.remove(t)
	}
	q.insert(t)
}

// Cancel removes t from the queue and reports whether it was queued
func (q *TimerQueue) Cancel(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if !t.queued {
		return false
	}
	q.remove(t)
	return true
}

// Pending returns the number of queued timers
func (q *TimerQueue) Pending() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	n := 0
	for t := q.list; t != nil; t = t.Next {
		n++
	}
	return n
}

// insert inserts a timer in sorted order by WakeTime
func (q *TimerQueue) insert(t *Timer) {
	t.queued = true
	if q.list == nil || t.WakeTime < q.list.WakeTime {
		t.Next = q.list
		q.list = t
		return
	}

	current := q.list
	for current.Next != nil && current.Next.WakeTime <= t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

func (q *TimerQueue) remove(t *Timer) {
	if q.list == t {
		q.list = t.Next
	} else {
		for current := q.list; current != nil; current = current.Next {
			if current.Next == t {
				current.Next = t.Next
				break
			}
		}
	}
	t.Next = nil
	t.queued = false
}

// Dispatch runs every timer with WakeTime <= now
func (q *TimerQueue) Dispatch(now uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for q.list != nil && q.list.WakeTime <= now {
		timer := q.list
		q.list = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references
		timer.queued = false

		if timer.Handler(timer) == SF_RESCHEDULE {
			q.insert(timer)
		}
	}
}
