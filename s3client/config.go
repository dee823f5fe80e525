package s3client

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/kelseyhightower/envconfig"
)

type EnvironmentConfig struct {
	BucketName  string `envconfig:"MDL_COMN_STORAGE_CONTAINER_NAME" required:"true"`
	T2PEnv      string `envconfig:"T2P_ENV" required:"true"`
	Region      string `envconfig:"MDL_COMN_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"MDL_COMN_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"MDL_COMN_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"MDL_COMN_AWS_ACCESS_KEY" default:""`
}

const maxRetries = 4

func ReadEnvironment() (EnvironmentConfig, error) {
	var config EnvironmentConfig
	err := envconfig.Process("", &config)
	return config, err
}

// instanceConfig relies on the default credential chain (EC2 role, shared config).
func (env EnvironmentConfig) instanceConfig() *aws.Config {
	return aws.NewConfig().
		WithRegion(env.Region).
		WithMaxRetries(maxRetries).
		WithLogLevel(aws.LogDebug)
}

// staticConfig uses the access key from the environment. Local stacks in dev also get a
// custom endpoint.
func (env EnvironmentConfig) staticConfig() *aws.Config {
	cfg := env.instanceConfig().
		WithCredentials(credentials.NewStaticCredentials(env.AccessKeyID, env.AccessKey, ""))
	if env.T2PEnv == "dev" && env.AwsEndpoint != "" {
		cfg = cfg.WithEndpoint(env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}
