package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shuati_backend/internal/config"
	"shuati_backend/internal/model"
	"shuati_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 题目附件（图片、讲解视频）的通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	GetURL(objectName string) string
}

// NewStorageProvider 按配置选择存储后端，默认本地目录
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case "minio":
		return NewMinioStorageProvider(cfg)
	case "local", "":
		return &LocalStorageProvider{Config: cfg}, nil
	}
	return nil, fmt.Errorf("未知的存储类型: %s", cfg.Type)
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, objectName))
}

func (p *LocalStorageProvider) GetURL(objectName string) string {
	return "/uploads/" + objectName
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, objectName, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(objectName string) string {
	return fmt.Sprintf("http://%s/%s/%s", p.Config.MinioEndpoint, p.Config.MinioBucket, objectName)
}

// MediaService 处理题目附件上传，视频额外探测时长并生成缩略图
type MediaService struct {
	Provider StorageProvider
}

func NewMediaService(provider StorageProvider) *MediaService {
	return &MediaService{Provider: provider}
}

// MediaUploadResult 上传回执，Ref 即题目 media_refs 中保存的标识
type MediaUploadResult struct {
	Ref         string `json:"ref"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	IsVideo     bool   `json:"isVideo"`
}

func (s *MediaService) UploadMedia(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (*MediaUploadResult, error) {
	ext := filepath.Ext(filename)
	ref := fmt.Sprintf("media/%s%s", model.GenerateUUID(), ext)

	url, err := s.Provider.Upload(ctx, ref, reader, size, contentType)
	if err != nil {
		return nil, err
	}
	return &MediaUploadResult{
		Ref:         ref,
		URL:         url,
		ContentType: contentType,
		IsVideo:     strings.HasPrefix(contentType, "video/"),
	}, nil
}

// UploadVideo 上传讲解视频：先落临时文件探测元数据并抓取封面帧，
// 再把视频和封面一并写入存储
func (s *MediaService) UploadVideo(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (*MediaUploadResult, *util.VideoInfo, error) {
	tmp, err := os.CreateTemp("", "shuati-video-*"+filepath.Ext(filename))
	if err != nil {
		return nil, nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return nil, nil, err
	}
	tmp.Close()

	info, err := util.ProbeVideo(tmp.Name())
	if err != nil {
		return nil, nil, err
	}

	thumbPath := tmp.Name() + ".jpg"
	defer os.Remove(thumbPath)
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
		return nil, nil, err
	}

	result, err := s.storeVideoWithThumb(ctx, filename, contentType, tmp.Name(), thumbPath, size)
	if err != nil {
		return nil, nil, err
	}
	return result, info, nil
}

// storeVideoWithThumb 先写视频再写封面；封面写入失败时删掉已入库的
// 视频对象，不留孤儿
func (s *MediaService) storeVideoWithThumb(ctx context.Context, filename, contentType, videoPath, thumbPath string, size int64) (*MediaUploadResult, error) {
	videoFile, err := os.Open(videoPath)
	if err != nil {
		return nil, err
	}
	defer videoFile.Close()

	result, err := s.UploadMedia(ctx, filename, contentType, videoFile, size)
	if err != nil {
		return nil, err
	}

	thumbRef := strings.TrimSuffix(result.Ref, filepath.Ext(result.Ref)) + "_thumb.jpg"
	if err := s.uploadThumb(ctx, thumbRef, thumbPath); err != nil {
		s.Provider.Delete(ctx, result.Ref)
		return nil, err
	}
	return result, nil
}

func (s *MediaService) uploadThumb(ctx context.Context, thumbRef, thumbPath string) error {
	thumbFile, err := os.Open(thumbPath)
	if err != nil {
		return err
	}
	defer thumbFile.Close()

	stat, err := thumbFile.Stat()
	if err != nil {
		return err
	}
	_, err = s.Provider.Upload(ctx, thumbRef, thumbFile, stat.Size(), "image/jpeg")
	return err
}
