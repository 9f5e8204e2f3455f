// Package scheduler owns every live reminder timer. One goroutine sleeps
// until the earliest pending fire and emits due reminders on an output
// channel; everything pending is revocable by task id before it fires.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkalyta/taskquest/internal/model"
)

var ErrStopped = errors.New("scheduler: engine stopped")

type queueItem struct {
	reminder Reminder
}

type reminderQueue []queueItem

func (q reminderQueue) Len() int { return len(q) }

func (q reminderQueue) Less(i, j int) bool {
	return q[i].reminder.FireAt.Before(q[j].reminder.FireAt)
}

func (q reminderQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *reminderQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *reminderQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   reminderQueue
	out     chan Reminder
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(reminderQueue, 0),
		out:    make(chan Reminder, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers due reminders to the presentation layer.
func (e *Engine) C() <-chan Reminder {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// ScheduleTask cancels whatever is pending for the task and schedules its
// current plan. Returns the number of reminders scheduled, which is fewer
// than three when target instants already passed.
func (e *Engine) ScheduleTask(task model.Task, now time.Time) (int, error) {
	plan := Plan(task, now)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return 0, ErrStopped
	}
	e.cancelTaskLocked(task.ID)
	for _, r := range plan {
		heap.Push(&e.queue, queueItem{reminder: r})
	}
	e.signalWakeup()
	return len(plan), nil
}

// CancelTask revokes every pending reminder for the task. Already-fired
// reminders are unaffected.
func (e *Engine) CancelTask(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTaskLocked(taskID)
	e.signalWakeup()
}

// ScheduleAll drops everything pending and reschedules from the given task
// list. Used on startup and on regaining focus, since timers do not survive
// a process restart.
func (e *Engine) ScheduleAll(tasks []model.Task, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.queue = e.queue[:0]
	for _, task := range tasks {
		for _, r := range Plan(task, now) {
			e.queue = append(e.queue, queueItem{reminder: r})
		}
	}
	heap.Init(&e.queue)
	e.signalWakeup()
	return nil
}

// PendingCount reports the pending reminders for one task.
func (e *Engine) PendingCount(taskID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, item := range e.queue {
		if item.reminder.TaskID == taskID {
			count++
		}
	}
	return count
}

// Dropped counts reminders discarded because the consumer was not keeping up.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) cancelTaskLocked(taskID string) {
	kept := e.queue[:0]
	for _, item := range e.queue {
		if item.reminder.TaskID != taskID {
			kept = append(kept, item)
		}
	}
	e.queue = kept
	heap.Init(&e.queue)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, r := range due {
				select {
				case e.out <- r:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Reminder{}, false
	}
	return e.queue[0].reminder, true
}

func (e *Engine) popDue(now time.Time) []Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Reminder, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].reminder
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.reminder)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
