// A grid store on an S3-compatible object service. The first segment of a
// remote path names the bucket (the grid "zone") and the rest is the object
// key. Collections are zero-length marker objects whose key ends in "/";
// any key below a prefix also makes that prefix a collection, which is how
// missing ancestors are materialized.

package s3store

import (
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/serverlessresearch/gridkit/pkg/grid"
)

type Config struct {
	Endpoint   string
	Region     string
	PathStyle  bool
	DisableSSL bool
	User       string
	Password   string
}

type s3Store struct {
	client s3iface.S3API
	log    grid.Logger
}

// NewStore opens a session against cfg.Endpoint using the grid user and
// password as static access credentials.
func NewStore(logger grid.Logger, cfg Config) (*s3Store, error) {
	awsCfg := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.User, cfg.Password, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
		DisableSSL:       aws.Bool(cfg.DisableSSL),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create S3 session")
	}
	logger.Debugf("opened S3 session (endpoint=%q region=%q)", cfg.Endpoint, cfg.Region)
	return NewStoreWithClient(logger, s3.New(sess)), nil
}

func NewStoreWithClient(logger grid.Logger, client s3iface.S3API) *s3Store {
	return &s3Store{client: client, log: logger}
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return true
		}
	}
	return false
}

func (s *s3Store) translate(err error, remotePath string) error {
	if isNotFound(err) {
		return grid.NotFound(remotePath)
	}
	return errors.Wrapf(err, "S3 request for %s failed", remotePath)
}

func (s *s3Store) DataObjectExists(remotePath string) bool {
	bucket, key := grid.SplitRemote(remotePath)
	if bucket == "" || key == "" {
		return false
	}
	_, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.log.Debugf("head %s: %v", remotePath, err)
		return false
	}
	return true
}

func (s *s3Store) CollectionExists(remotePath string) bool {
	bucket, key := grid.SplitRemote(remotePath)
	if bucket == "" {
		return false
	}
	if key == "" {
		_, err := s.client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(bucket)})
		if err != nil {
			s.log.Debugf("head bucket %s: %v", bucket, err)
			return false
		}
		return true
	}

	out, err := s.client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(key + "/"),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		s.log.Debugf("list %s: %v", remotePath, err)
		return false
	}
	return aws.Int64Value(out.KeyCount) > 0 || len(out.Contents) > 0
}

func (s *s3Store) CreateCollection(remotePath string) (*grid.Object, error) {
	bucket, key := grid.SplitRemote(remotePath)
	if bucket == "" {
		return nil, errors.Errorf("cannot create collection at %q: no zone", remotePath)
	}
	if key != "" {
		_, err := s.client.PutObject(&s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key + "/"),
			Body:   strings.NewReader(""),
		})
		if err != nil {
			return nil, s.translate(err, remotePath)
		}
	}
	return grid.NewObject(remotePath, grid.CollectionKind, 0, nil), nil
}

func (s *s3Store) Put(localFile string, remotePath string) error {
	bucket, key := grid.SplitRemote(remotePath)
	if bucket == "" || key == "" {
		return errors.Errorf("cannot put %s at %q: not a data object path", localFile, remotePath)
	}

	f, err := os.Open(localFile)
	if err != nil {
		if os.IsNotExist(err) {
			return grid.NotFound(localFile)
		}
		return errors.Wrap(err, "Failed to open "+localFile)
	}
	defer f.Close()

	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return s.translate(err, remotePath)
	}
	return nil
}

func (s *s3Store) Get(remotePath string) (*grid.Object, error) {
	bucket, key := grid.SplitRemote(remotePath)
	if key != "" {
		head, err := s.client.HeadObject(&s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return grid.NewObject(remotePath, grid.DataObjectKind, aws.Int64Value(head.ContentLength), func() (io.ReadCloser, error) {
				out, err := s.client.GetObject(&s3.GetObjectInput{
					Bucket: aws.String(bucket),
					Key:    aws.String(key),
				})
				if err != nil {
					return nil, s.translate(err, remotePath)
				}
				return out.Body, nil
			}), nil
		} else if !isNotFound(err) {
			return nil, s.translate(err, remotePath)
		}
	}

	if s.CollectionExists(remotePath) {
		return grid.NewObject(remotePath, grid.CollectionKind, 0, nil), nil
	}
	return nil, grid.NotFound(remotePath)
}

func (s *s3Store) Destroy() {}
