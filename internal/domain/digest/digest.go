// Package digest ranks a user's tasks into the daily digest order.
//
// Ranking is a pure function of the task list, the current date and the
// configured week start. Each task is tagged with exactly one bucket in a
// single pass; buckets are emitted in precedence order and keep the input
// order within each bucket.
package digest

import (
	"github.com/taskflow-ai/taskflow-api/internal/domain"
)

// Bucket identifies the digest section a task was ranked into.
type Bucket string

// Buckets in precedence order.
const (
	BucketImportant   Bucket = "important"
	BucketDueToday    Bucket = "due_today"
	BucketDueThisWeek Bucket = "due_this_week"
	BucketRemaining   Bucket = "remaining"
)

// Buckets lists every bucket in the order they appear in a digest.
var Buckets = []Bucket{BucketImportant, BucketDueToday, BucketDueThisWeek, BucketRemaining}

// Entry is a ranked task together with the bucket it was assigned to.
type Entry struct {
	Task   *domain.Task
	Bucket Bucket
}

// Classify returns the bucket a single task belongs to on the given day.
// The first matching rule wins: importance, then due today, then due within
// the week containing today.
func Classify(task *domain.Task, today domain.Date, params Params) Bucket {
	if task.IsImportant {
		return BucketImportant
	}
	if task.DueDate == nil {
		return BucketRemaining
	}

	due := *task.DueDate
	if due == today {
		return BucketDueToday
	}

	weekStart, weekEnd := params.WeekBounds(today)
	if !due.Before(weekStart) && !due.After(weekEnd) {
		return BucketDueThisWeek
	}

	return BucketRemaining
}

// RankEntries orders tasks for the digest and reports each task's bucket.
// The input slice is not modified.
func RankEntries(tasks []*domain.Task, today domain.Date, params Params) []Entry {
	tagged := make(map[Bucket][]*domain.Task, len(Buckets))
	for _, task := range tasks {
		if task == nil {
			continue
		}
		b := Classify(task, today, params)
		tagged[b] = append(tagged[b], task)
	}

	entries := make([]Entry, 0, len(tasks))
	for _, b := range Buckets {
		for _, task := range tagged[b] {
			entries = append(entries, Entry{Task: task, Bucket: b})
		}
	}
	return entries
}

// Rank orders tasks for the digest: Important, DueToday, DueThisWeek, then
// Remaining. Every input task appears exactly once in the result.
func Rank(tasks []*domain.Task, today domain.Date, params Params) []*domain.Task {
	entries := RankEntries(tasks, today, params)
	ranked := make([]*domain.Task, len(entries))
	for i, e := range entries {
		ranked[i] = e.Task
	}
	return ranked
}

// Counts returns the number of entries in each bucket.
func Counts(entries []Entry) map[Bucket]int {
	counts := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		counts[b] = 0
	}
	for _, e := range entries {
		counts[e.Bucket]++
	}
	return counts
}
