package s3client

import (
	"text2phenotype.com/hmmtagger/logger"
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

type Client struct {
	holder     *sessionHolder
	bucketName string
}

func New() (*Client, error) {
	env, err := ReadEnvironment()
	if err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{
		bucketName: env.BucketName,
		holder:     &sessionHolder{factory: newSessionFactory(env)},
	}
	if _, err = client.holder.get(); err != nil {
		return nil, err
	}
	return client, nil
}

func (client *Client) Upload(ctx context.Context, key string, data []byte) error {
	return client.withSession(func(sess *session.Session) error {
		keyLogger := client.keyLogger(key)
		keyLogger.Debug().Int("size", len(data)).Msg("Uploading the file")
		uploader := s3manager.NewUploader(sess.Copy(sdkConfig(key, client.bucketName)))
		_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
			Bucket: aws.String(client.bucketName),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		return err
	})
}

func (client *Client) Download(ctx context.Context, key string) ([]byte, error) {
	var res []byte
	err := client.withSession(func(sess *session.Session) error {
		keyLogger := client.keyLogger(key)
		keyLogger.Debug().Msg("Downloading file")
		downloader := s3manager.NewDownloader(sess.Copy(sdkConfig(key, client.bucketName)))
		buf := aws.NewWriteAtBuffer([]byte{})
		size, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(client.bucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			keyLogger.Error().Err(err).Msg("Failed to download file")
			return err
		}
		keyLogger.Debug().Int64("size", size).Msg("Downloaded file")
		res = buf.Bytes()
		return nil
	})
	return res, err
}

func (client *Client) Close() {}

// withSession retries op once with a fresh session when it fails.
func (client *Client) withSession(op func(sess *session.Session) error) error {
	sess, err := client.holder.get()
	if err != nil {
		return err
	}
	err = op(sess)
	if err == nil {
		return nil
	}
	clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
	sess, refreshErr := client.holder.refresh(sess)
	if refreshErr != nil {
		return fmt.Errorf("%v; refreshing session: %w", err, refreshErr)
	}
	return op(sess)
}

func (client *Client) keyLogger(key string) zerolog.Logger {
	return clientLogger.With().
		Str("key", key).
		Str("bucket", client.bucketName).
		Logger()
}

func sdkConfig(key string, bucket string) *aws.Config {
	sdkLog := sdkLogger.With().
		Str("key", key).
		Str("bucket", bucket).
		Logger()
	return &aws.Config{Logger: aws.LoggerFunc(func(args ...interface{}) {
		sdkLog.Debug().Msg(fmt.Sprint(args...))
	})}
}
