package worker

import (
	"fmt"

	"vnexus.com/mtl/tasks"
)

type redisTransactions interface {
	getDocumentTask(redisKey string) (*tasks.DocumentTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Timeline.Status = tasks.TaskStatusStarted
		docTask.TaskStatuses.Timeline.Attempts += 1
		docTask.TaskStatuses.Timeline.StartedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Timeline.Status = tasks.TaskStatusCanceled
		docTask.TaskStatuses.Timeline.StartedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.Attempts += 1
		docTask.TaskStatuses.Timeline.ErrorMessages = append(
			docTask.TaskStatuses.Timeline.ErrorMessages,
			errorMessages...,
		)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.FailedTasks = append(docTask.FailedTasks, "timeline")
		docTask.TaskStatuses.Timeline.Status = tasks.TaskStatusCompletedFailure
		docTask.TaskStatuses.Timeline.StartedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.Attempts += 1
		docTask.TaskStatuses.Timeline.ErrorMessages = append(
			docTask.TaskStatuses.Timeline.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				docTask.TaskStatuses.Timeline.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Timeline.Status = tasks.TaskStatusFailed
		docTask.TaskStatuses.Timeline.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.ErrorMessages = append(
			docTask.TaskStatuses.Timeline.ErrorMessages,
			err.Error(),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		if !docTask.TaskStatuses.Timeline.Status.Complete() {
			docTask.TaskStatuses.Timeline.Status = tasks.TaskStatusCompletedSuccess
		}
		docTask.TaskStatuses.Timeline.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Timeline.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getDocumentTask(redisKey string) (*tasks.DocumentTask, error) {
	return wrapper.tasksClient.Documents.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.docTask.JobID)
}
