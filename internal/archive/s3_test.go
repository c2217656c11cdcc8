package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/factoscope/internal/core"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 9, 1, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	tests := []struct {
		name     string
		prefix   string
		kind     core.ImportKind
		fileName string
		want     string
	}{
		{"with prefix", "imports", core.ImportCourse, "cours.csv", "imports/course/2025/09/01/id1-cours.csv"},
		{"no prefix", "", core.ImportQuestions, "q.csv", "questions/2025/09/01/id1-q.csv"},
		{"unix path stripped", "imports", core.ImportCourse, "../../etc/cours.csv", "imports/course/2025/09/01/id1-cours.csv"},
		{"windows path stripped", "imports", core.ImportCourse, `C:\Users\prof\cours.csv`, "imports/course/2025/09/01/id1-cours.csv"},
		{"empty name", "imports", core.ImportCourse, "", "imports/course/2025/09/01/id1-upload.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.prefix, tt.kind, at, "id1", tt.fileName); got != tt.want {
				t.Errorf("ObjectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestS3Archiver_Store(t *testing.T) {
	fake := &fakeS3{}
	a := newS3Archiver(fake, "factoscope", "/imports/")
	a.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	key, err := a.Store(context.Background(), core.ImportQuestions, "abc", "q.csv", []byte("Q;a;b;c;d;1\n"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if key != "imports/questions/2025/01/02/abc-q.csv" {
		t.Errorf("key = %q", key)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if aws.ToString(in.Bucket) != "factoscope" || aws.ToString(in.Key) != key {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToInt64(in.ContentLength) != 12 || !strings.HasPrefix(aws.ToString(in.ContentType), "text/csv") {
		t.Errorf("length %d type %q", aws.ToInt64(in.ContentLength), aws.ToString(in.ContentType))
	}
	if in.Metadata["import-id"] != "abc" {
		t.Errorf("metadata = %v", in.Metadata)
	}
	if fake.bodies[0] != "Q;a;b;c;d;1\n" {
		t.Errorf("body = %q", fake.bodies[0])
	}
}

func TestS3Archiver_StoreError(t *testing.T) {
	fake := &fakeS3{err: errors.New("AccessDenied")}
	a := newS3Archiver(fake, "factoscope", "")

	if _, err := a.Store(context.Background(), core.ImportCourse, "x", "c.csv", nil); err == nil || !strings.Contains(err.Error(), "AccessDenied") {
		t.Errorf("Store() error = %v, want AccessDenied", err)
	}
}
