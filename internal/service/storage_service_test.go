package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeProvider 内存存储桩，可指定某个对象写入失败
type fakeProvider struct {
	objects  map[string][]byte
	failSub  string
	deletes  []string
	uploaded []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: map[string][]byte{}}
}

func (p *fakeProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if p.failSub != "" && strings.Contains(objectName, p.failSub) {
		return "", fmt.Errorf("upload %s: simulated storage failure", objectName)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	p.objects[objectName] = data
	p.uploaded = append(p.uploaded, objectName)
	return p.GetURL(objectName), nil
}

func (p *fakeProvider) Delete(ctx context.Context, objectName string) error {
	delete(p.objects, objectName)
	p.deletes = append(p.deletes, objectName)
	return nil
}

func (p *fakeProvider) GetURL(objectName string) string {
	return "/fake/" + objectName
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestUploadMediaAssignsRef(t *testing.T) {
	provider := newFakeProvider()
	svc := NewMediaService(provider)

	result, err := svc.UploadMedia(context.Background(), "figure.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if !strings.HasPrefix(result.Ref, "media/") || !strings.HasSuffix(result.Ref, ".png") {
		t.Errorf("Ref = %q", result.Ref)
	}
	if result.IsVideo {
		t.Error("IsVideo = true for an image")
	}
	if _, ok := provider.objects[result.Ref]; !ok {
		t.Error("object was not stored")
	}
}

func TestStoreVideoWithThumbStoresBoth(t *testing.T) {
	provider := newFakeProvider()
	svc := NewMediaService(provider)

	videoPath := writeTempFile(t, "lesson.mp4", "video-bytes")
	thumbPath := writeTempFile(t, "lesson.jpg", "thumb-bytes")

	result, err := svc.storeVideoWithThumb(context.Background(), "lesson.mp4", "video/mp4", videoPath, thumbPath, 11)
	if err != nil {
		t.Fatalf("storeVideoWithThumb: %v", err)
	}
	if !result.IsVideo {
		t.Error("IsVideo = false")
	}
	if len(provider.objects) != 2 {
		t.Errorf("stored objects = %d, want 2", len(provider.objects))
	}
	thumbRef := strings.TrimSuffix(result.Ref, ".mp4") + "_thumb.jpg"
	if _, ok := provider.objects[thumbRef]; !ok {
		t.Errorf("thumbnail %q not stored", thumbRef)
	}
}

func TestStoreVideoWithThumbCleansUpOnThumbFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.failSub = "_thumb"
	svc := NewMediaService(provider)

	videoPath := writeTempFile(t, "lesson.mp4", "video-bytes")
	thumbPath := writeTempFile(t, "lesson.jpg", "thumb-bytes")

	_, err := svc.storeVideoWithThumb(context.Background(), "lesson.mp4", "video/mp4", videoPath, thumbPath, 11)
	if err == nil {
		t.Fatal("storeVideoWithThumb succeeded despite thumbnail failure")
	}
	// 封面写入失败后不得留下孤立的视频对象
	if len(provider.objects) != 0 {
		t.Errorf("orphaned objects remain: %v", provider.objects)
	}
	if len(provider.deletes) != 1 {
		t.Errorf("deletes = %v, want exactly the video ref", provider.deletes)
	}
}
