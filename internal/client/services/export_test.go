package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	name string
	data []byte
	err  error
}

func (c *captureSink) Put(_ context.Context, name string, data []byte) (string, error) {
	c.name, c.data = name, data
	return "mem://" + name, c.err
}

func exportFixture(t *testing.T, premium bool, sink ExportSink) ExportService {
	t.Helper()
	ctx := context.Background()

	contacts, _ := newContacts(&memStore[models.ContactsSnapshot]{})
	_, err := contacts.AddContact(ctx, models.ContactFormData{Name: "Jane, Jr.", Company: "Acme", Tags: []string{"a", "b"}}, "")
	require.NoError(t, err)
	_, err = contacts.AddContact(ctx, models.ContactFormData{Name: "Bob", Notes: "line1\nline2"}, "")
	require.NoError(t, err)

	ent := NewEntitlementService(&memStore[models.SettingsSnapshot]{}, 3, logging.Discard())
	require.NoError(t, ent.SetPremium(ctx, premium))

	return NewExportService(contacts, ent, sink, logging.Discard())
}

func TestExport_RequiresPremium(t *testing.T) {
	sink := &captureSink{}
	_, err := exportFixture(t, false, sink).Export(context.Background())
	require.ErrorIs(t, err, common.ErrPremiumRequired)
	assert.Nil(t, sink.data)
}

func TestExport_WritesOneRowPerContact(t *testing.T) {
	sink := &captureSink{}
	loc, err := exportFixture(t, true, sink).Export(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sink.name, "contacts-"))
	assert.True(t, strings.HasSuffix(sink.name, ".csv"))
	assert.Equal(t, "mem://"+sink.name, loc)

	rows, err := csv.NewReader(strings.NewReader(string(sink.data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "Bob", rows[1][0])
	assert.Equal(t, "line1\nline2", rows[1][7])
	assert.Equal(t, "Jane, Jr.", rows[2][0])
	assert.Equal(t, "a;b", rows[2][8])
	assert.Equal(t, t0.Format(time.RFC3339), rows[2][9])
}

func TestExport_SinkError(t *testing.T) {
	sink := &captureSink{err: errors.New("no space")}
	_, err := exportFixture(t, true, sink).Export(context.Background())
	require.ErrorContains(t, err, "failed to store export: no space")
}

func TestFileSink_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := FileSink{Dir: dir}.Put(context.Background(), "c.csv", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "c.csv", filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestS3Sink_PresignsAndUploads(t *testing.T) {
	var gotBody, gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotType, gotMethod = string(b), r.Header.Get("Content-Type"), r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	origPresign := presignPutObject
	t.Cleanup(func() { presignPutObject = origPresign })

	var gotBucket, gotKey string
	presignPutObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
		return &v4.PresignedHTTPRequest{URL: srv.URL + "/upload", Method: http.MethodPut}, nil
	}

	sink := NewS3Sink(S3Config{Bucket: "ck", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000", User: "u", Password: "p"}, srv.Client())
	loc, err := sink.Put(context.Background(), "c.csv", []byte("a,b"))
	require.NoError(t, err)

	assert.Equal(t, "s3://ck/exports/c.csv", loc)
	assert.Equal(t, "ck", gotBucket)
	assert.Equal(t, "exports/c.csv", gotKey)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "text/csv", gotType)
	assert.Equal(t, "a,b", gotBody)
}

func TestS3Sink_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Sink(S3Config{Bucket: "ck"}, nil).Put(context.Background(), "c.csv", nil)
	require.ErrorContains(t, err, "failed to configure s3: no config")
}

func TestS3Sink_PresignError(t *testing.T) {
	origPresign := presignPutObject
	t.Cleanup(func() { presignPutObject = origPresign })
	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("denied")
	}

	_, err := NewS3Sink(S3Config{Bucket: "ck", Region: "us-east-1"}, nil).Put(context.Background(), "c.csv", nil)
	require.ErrorContains(t, err, "failed to presign upload: denied")
}
