package planner

import "github.com/fieldops/weekplan/core/model"

// backlog is the scheduler's working queue. Order is significant: jobs
// rejected from a batch are pushed back to the front so the next scan sees
// them before anything else.
type backlog struct {
	jobs []*model.Job
}

func newBacklog(jobs []*model.Job) *backlog {
	return &backlog{jobs: jobs}
}

func (b *backlog) len() int { return len(b.jobs) }

// popFirst removes and returns the first job matching the predicate, or nil.
func (b *backlog) popFirst(match func(*model.Job) bool) *model.Job {
	for i, j := range b.jobs {
		if match(j) {
			b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
			return j
		}
	}
	return nil
}

// pushFront re-inserts a job at the head of the queue.
func (b *backlog) pushFront(j *model.Job) {
	b.jobs = append([]*model.Job{j}, b.jobs...)
}

// any reports whether some queued job matches the predicate.
func (b *backlog) any(match func(*model.Job) bool) bool {
	for _, j := range b.jobs {
		if match(j) {
			return true
		}
	}
	return false
}

// minMinutes returns the smallest estimated duration among matching jobs.
func (b *backlog) minMinutes(match func(*model.Job) bool) (int, bool) {
	best, found := 0, false
	for _, j := range b.jobs {
		if !match(j) {
			continue
		}
		if !found || j.EstimatedMinutes < best {
			best, found = j.EstimatedMinutes, true
		}
	}
	return best, found
}

// drain empties the queue and returns the jobs in their current order.
func (b *backlog) drain() []*model.Job {
	out := b.jobs
	b.jobs = nil
	return out
}
