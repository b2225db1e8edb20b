package s3client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"vnexus.com/mtl/logger"
)

type EnvironmentConfig struct {
	BucketName  string `envconfig:"VNX_COMN_STORAGE_CONTAINER_NAME" required:"true"`
	VnxEnv      string `envconfig:"VNX_ENV" required:"true"`
	Region      string `envconfig:"VNX_COMN_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"VNX_COMN_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"VNX_COMN_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"VNX_COMN_AWS_ACCESS_KEY" default:""`
}

// Client reads extracted chunk payloads from and writes analysis results to
// the platform object store.
type Client struct {
	sess       *session.Session
	bucketName string
	env        EnvironmentConfig
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{
		bucketName: env.BucketName,
		env:        env,
	}
	if err := client.acquireSession(); err != nil {
		return nil, err
	}
	return client, nil
}

func (client *Client) Upload(data string, key string) error {
	uploadLogger := clientLogger.With().
		Str("key", key).
		Str("bucket", client.bucketName).Logger()

	uploader := s3manager.NewUploader(client.sess.Copy(&aws.Config{Logger: getLogger(sdkLogger)}))
	uploadLogger.Debug().Msg("Uploading the file")
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: &client.bucketName,
		Key:    &key,
		Body:   strings.NewReader(data),
	})
	if err != nil {
		uploadLogger.Error().Err(err).Msg("Failed to upload file")
	}
	return err
}

func (client *Client) Download(key string) ([]byte, error) {
	downloadLogger := clientLogger.With().
		Str("key", key).
		Str("bucket", client.bucketName).Logger()

	downloader := s3manager.NewDownloader(client.sess.Copy(&aws.Config{Logger: getLogger(sdkLogger)}))
	buf := aws.NewWriteAtBuffer([]byte{})

	downloadLogger.Debug().Msg("Downloading file")
	size, err := downloader.Download(buf, &s3.GetObjectInput{
		Bucket: &client.bucketName,
		Key:    &key,
	})
	if err != nil {
		downloadLogger.Error().Err(err).Msg("Failed to download file")
		return nil, err
	}
	downloadLogger.Debug().Msgf("Downloaded %v bytes", size)
	return buf.Bytes(), nil
}

func (client *Client) Close() {}

// acquireSession prefers instance-profile credentials and falls back to the
// static credentials from the environment (the local/dev path, where a
// custom endpoint may point at a MinIO container).
func (client *Client) acquireSession() error {
	sess, err := session.NewSession(&aws.Config{
		Region:     aws.String(client.env.Region),
		MaxRetries: aws.Int(4),
	})
	if err == nil {
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err == nil {
			client.sess = sess
			clientLogger.Info().Msg("S3 session initialized using instance credentials")
			return nil
		}
	}
	clientLogger.Info().Msg("No instance credentials, trying env credentials")

	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		clientLogger.Error().Err(err).Msg("Error with credentials from environment")
		return err
	}
	cfg := aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(4).
		WithCredentials(creds)
	if client.env.VnxEnv == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	sess, err = session.NewSession(cfg)
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return err
	}
	if _, err := sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return errors.New("could not initialize S3 session")
	}
	client.sess = sess
	clientLogger.Info().Msg("S3 session initialized using env credentials")
	return nil
}

type s3Logger struct {
	mtlLogger zerolog.Logger
}

func getLogger(mtlLogger zerolog.Logger) *s3Logger {
	return &s3Logger{mtlLogger}
}

func (logger *s3Logger) Log(v ...interface{}) {
	logger.mtlLogger.Debug().Msg(fmt.Sprint(v...))
}
