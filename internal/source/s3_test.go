package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
)

// fakeObjects serves workbook bytes keyed by "bucket/key".
type fakeObjects struct {
	objects map[string][]byte
	err     error
	calls   []string
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	name := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestScheduleWorkbook_LoadFromS3(t *testing.T) {
	objects := &fakeObjects{objects: map[string][]byte{
		"ref-data/wlpa/WLPA.xlsx": readFile(t, scheduleBook(t)),
	}}

	src := NewScheduleWorkbook("s3://ref-data/wlpa/WLPA.xlsx", nil)
	src.Objects = objects

	batch, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(batch.Records) != 5 {
		t.Errorf("Load() returned %d records, want 5", len(batch.Records))
	}
	if diff := cmp.Diff([]string{"ref-data/wlpa/WLPA.xlsx"}, objects.calls); diff != "" {
		t.Errorf("GetObject calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecimenWorkbook_MissingObjectIsWarning(t *testing.T) {
	src := NewSpecimenWorkbook("s3://ref-data/WLPA-SchIV.xlsx", LayoutAuto)
	src.Objects = &fakeObjects{}

	batch, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(batch.Specimens) != 0 {
		t.Errorf("Load() specimens = %v, want none", batch.Specimens)
	}
	if len(batch.Warnings) != 1 || !strings.Contains(batch.Warnings[0], "not found") {
		t.Errorf("Load() warnings = %v, want one not-found warning", batch.Warnings)
	}
}

func TestOpenWorkbook_S3Errors(t *testing.T) {
	denied := errors.New("AccessDenied")

	tests := []struct {
		name     string
		location string
		objects  ObjectGetter
		wantErr  error
	}{
		{name: "no client", location: "s3://ref-data/WLPA.xlsx"},
		{name: "missing key", location: "s3://ref-data/", objects: &fakeObjects{}},
		{name: "request failure", location: "s3://ref-data/WLPA.xlsx", objects: &fakeObjects{err: denied}, wantErr: denied},
		{
			name:     "not a workbook",
			location: "s3://ref-data/WLPA.xlsx",
			objects:  &fakeObjects{objects: map[string][]byte{"ref-data/WLPA.xlsx": []byte("plain text")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := openWorkbook(context.Background(), tt.location, tt.objects)
			if err == nil {
				f.Close()
				t.Fatal("openWorkbook() error = nil")
			}
			if !strings.Contains(err.Error(), tt.location) {
				t.Errorf("error %q should name %s", err, tt.location)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want wrapped %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		wantErr     bool
	}{
		{in: "s3://ref-data/WLPA.xlsx", bucket: "ref-data", key: "WLPA.xlsx"},
		{in: "s3://ref-data/2024/WLPA-SchIV.xlsx", bucket: "ref-data", key: "2024/WLPA-SchIV.xlsx"},
		{in: "s3://ref-data", wantErr: true},
		{in: "s3:///WLPA.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		bucket, key, err := parseS3URI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseS3URI(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if bucket != tt.bucket || key != tt.key {
			t.Errorf("parseS3URI(%q) = %q, %q; want %q, %q", tt.in, bucket, key, tt.bucket, tt.key)
		}
	}
}
