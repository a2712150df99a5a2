package vault

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeObject struct {
	data     []byte
	metadata map[string]string
}

// fakeS3 is an in-memory stand-in for the S3 API. Multipart uploads are not
// supported; backups are far below the uploader's part size.
type fakeS3 struct {
	bucket  string
	mu      sync.Mutex
	objects map[string]fakeObject
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: make(map[string]fakeObject)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = fakeObject{data: data, metadata: in.Metadata}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{Metadata: obj.metadata, ContentLength: aws.Int64(int64(len(obj.data)))}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	panic("multipart upload not supported by fakeS3")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	panic("multipart upload not supported by fakeS3")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	panic("multipart upload not supported by fakeS3")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

var _ S3Client = (*fakeS3)(nil)

func TestS3Vault_ObjectKeyAndMetadata(t *testing.T) {
	fake := newFakeS3("clips")
	v := NewS3Vault("cloud", "clips", "backups", fake)

	if err := v.PutBackup("host-a", "export.json", bytes.NewReader([]byte("{}")), 2, 5); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}

	obj, ok := fake.objects["backups/host-a/export.json"]
	if !ok {
		t.Fatalf("object not stored under backups/host-a/export.json; have %v", fake.objects)
	}
	if obj.metadata[versionMetadataKey] != "5" {
		t.Errorf("version metadata = %q, want %q", obj.metadata[versionMetadataKey], "5")
	}
}

func TestS3Vault_ValidateSetup(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{"existing bucket", "clips", false},
		{"missing bucket", "other", true},
		{"no bucket configured", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewS3Vault("cloud", tt.bucket, "", newFakeS3("clips"))
			err := v.ValidateSetup()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSetup() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
