package tasks

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

// TaggerTaskName identifies this service in task statuses and failed task lists.
const TaggerTaskName = "tagger"

func (s TaskStatus) Complete() bool {
	switch s {
	case TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled:
		return true
	}
	return false
}

func (s TaskStatus) Submitted() bool {
	switch s {
	case TaskStatusSubmitted, TaskStatusStarted, TaskStatusProcessing:
		return true
	}
	return false
}
