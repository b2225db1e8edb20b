package tasks

import (
	"vnexus.com/mtl/redis"
)

const JobsDB redis.DB = 1

type JobTask struct {
	UserCanceled           bool `json:"user_canceled"`
	StopDocumentsOnFailure bool `json:"stop_documents_on_failure"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) GetCached(redisKey string) (*JobTask, error) {
	raw, err := tasks.client.GetRaw(cachedPropertiesKey(redisKey))
	if err != nil {
		return nil, err
	}
	var task JobTask
	if err := decodeRaw(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
