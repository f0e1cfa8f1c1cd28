package gesture

import (
	"sort"
	"time"
)

type timerKind uint8

const (
	timerVelocityDecay timerKind = iota
	timerLongTouch
)

// timerKey identifies a delayed task. Scheduling a key that is already
// pending replaces the pending task.
type timerKey struct {
	kind    timerKind
	pointer PointerID
	target  Target
}

type timerTask struct {
	key timerKey
	at  time.Time
	seq uint64
	fn  func(at time.Time)
}

// timerQueue holds the recognizer's delayed tasks. It never runs anything
// on its own; the recognizer drains due tasks before each primitive and on
// Tick, so tasks run on the same goroutine as the state engine.
type timerQueue struct {
	tasks map[timerKey]*timerTask
	seq   uint64
	due   []*timerTask
}

func (q *timerQueue) schedule(key timerKey, at time.Time, fn func(at time.Time)) {
	if q.tasks == nil {
		q.tasks = make(map[timerKey]*timerTask)
	}
	q.seq++
	q.tasks[key] = &timerTask{key: key, at: at, seq: q.seq, fn: fn}
}

func (q *timerQueue) cancel(key timerKey) bool {
	if _, ok := q.tasks[key]; !ok {
		return false
	}
	delete(q.tasks, key)
	return true
}

// cancelKind drops every pending task of the given kind.
func (q *timerQueue) cancelKind(kind timerKind) {
	for key := range q.tasks {
		if key.kind == kind {
			delete(q.tasks, key)
		}
	}
}

func (q *timerQueue) pending(key timerKey) bool {
	_, ok := q.tasks[key]
	return ok
}

func (q *timerQueue) len() int { return len(q.tasks) }

// runDue runs every task whose deadline is at or before now, earliest
// first, ties in scheduling order. Tasks scheduled by a running task are
// considered in the same pass if they are already due.
func (q *timerQueue) runDue(now time.Time) {
	for {
		q.due = q.due[:0]
		for _, t := range q.tasks {
			if !t.at.After(now) {
				q.due = append(q.due, t)
			}
		}
		if len(q.due) == 0 {
			return
		}
		sort.Slice(q.due, func(i, j int) bool {
			if !q.due[i].at.Equal(q.due[j].at) {
				return q.due[i].at.Before(q.due[j].at)
			}
			return q.due[i].seq < q.due[j].seq
		})
		next := q.due[0]
		delete(q.tasks, next.key)
		next.fn(next.at)
	}
}
