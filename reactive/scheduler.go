package reactive

import (
	"errors"
	"fmt"
)

// Job is a unit of deferred work. Jobs are compared by identity, so queue
// pointers.
type Job interface {
	Run() error
}

type stoppable interface {
	Active() bool
}

// QueueJob adds job to the pending set. Queuing the same job again before
// the next drain has no effect.
func (rs *ReactiveSystem) QueueJob(job Job) {
	if !rs.queued.Add(job) {
		return
	}
	rs.queue = append(rs.queue, job)
}

// Pending reports how many jobs wait for the next drain.
func (rs *ReactiveSystem) Pending() int {
	return len(rs.queue)
}

// Flush drains the job queue once. Jobs queued while draining run in the
// same drain unless they already ran. A failing job does not stop the
// others; all failures are joined into the returned error.
func (rs *ReactiveSystem) Flush() error {
	if rs.flushing {
		return nil
	}
	rs.flushing = true
	defer func() {
		clear(rs.queue)
		rs.queue = rs.queue[:0]
		rs.queued.Clear()
		rs.flushing = false
	}()

	var errs []error
	for i := 0; i < len(rs.queue); i++ {
		job := rs.queue[i]
		if s, ok := job.(stoppable); ok && !s.Active() {
			continue
		}
		if err := runJob(job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reactive: job panicked: %v", r)
		}
	}()
	return job.Run()
}
