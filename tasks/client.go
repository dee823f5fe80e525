package tasks

import (
	"text2phenotype.com/hmmtagger/redis"
)

type Client struct {
	Documents DocumentTasks
	Chunks    ChunkTasks
	Jobs      JobTasks
}

// NewClient opens one connection per task database, all configured from the environment.
func NewClient() (Client, error) {
	cfg, err := redis.ReadConfig()
	if err != nil {
		return Client{}, err
	}
	return Client{
		Documents: DocumentTasks{client: redis.NewClientWithConfig(cfg, DocumentsDB)},
		Jobs:      JobTasks{client: redis.NewClientWithConfig(cfg, JobsDB)},
		Chunks:    ChunkTasks{client: redis.NewClientWithConfig(cfg, ChunksDB)},
	}, nil
}

func (client *Client) Close() {
	_ = client.Chunks.client.Close()
	_ = client.Documents.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return redisKey + "-cached-properties"
}
