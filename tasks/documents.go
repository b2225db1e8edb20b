package tasks

import (
	"vnexus.com/mtl/redis"
)

const DocumentsDB redis.DB = 0

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

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

type TimelineTaskInfo struct {
	ResultsFileKey string     `json:"results_file_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	ErrorMessages  []string   `json:"error_messages"`
}

type DocumentTaskStatuses struct {
	Timeline TimelineTaskInfo `json:"timeline"`
}

// DocumentTask is the shared platform record for one document. The timeline
// service owns only the task_statuses.timeline subtree and failed_tasks
// entries it appends; everything else belongs to the OCR/chunking services.
type DocumentTask struct {
	DocID            string               `json:"document_id"`
	JobID            string               `json:"job_id"`
	ExtractedFileKey string               `json:"extracted_file_key"`
	FailedTasks      []string             `json:"failed_tasks"`
	TaskStatuses     DocumentTaskStatuses `json:"task_statuses"`
}

type DocumentTasks struct {
	client redis.Client
}

func (tasks DocumentTasks) Get(redisKey string) (*DocumentTask, error) {
	raw, err := tasks.client.GetRaw(redisKey)
	if err != nil {
		return nil, err
	}
	var task DocumentTask
	if err := decodeRaw(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks DocumentTasks) Update(redisKey string, updateFunc func(task *DocumentTask)) error {
	return tasks.client.UpdateRaw(redisKey, func(raw map[string]interface{}) error {
		var task DocumentTask
		if err := decodeRaw(raw, &task); err != nil {
			return err
		}
		updateFunc(&task)
		encoded, err := encodeToMap(&task)
		if err != nil {
			return err
		}
		mergeRaw(raw, encoded)
		return nil
	})
}
