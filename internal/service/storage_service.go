package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"league_stats/internal/config"
	"league_stats/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SheetObject 存储中的一个表格文件
type SheetObject struct {
	Key      string
	Size     int64
	Modified time.Time
}

// StorageProvider 定义表格文件存储接口，key 一律使用 "/" 分隔
type StorageProvider interface {
	List(ctx context.Context, prefix string) ([]SheetObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Kind() string
}

func joinKey(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), name)
}

// LocalStorageProvider 本地目录实现
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) Kind() string { return util.StorageLocal }

// resolve 拒绝跳出根目录的 key
func (p *LocalStorageProvider) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(p.Root, filepath.FromSlash(clean)), nil
}

func (p *LocalStorageProvider) List(ctx context.Context, prefix string) ([]SheetObject, error) {
	dir := filepath.Join(p.Root, filepath.FromSlash(path.Clean("/"+prefix)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []SheetObject
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, SheetObject{
			Key:      joinKey(prefix, e.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return out, nil
}

func (p *LocalStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	dst, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(dst)
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst, err := p.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	// 先写临时文件再改名，避免监听方读到半个文件
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	dst, err := p.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(dst)
}

// Dir 本地系列目录，用于文件监听
func (p *LocalStorageProvider) Dir(prefix string) string {
	return filepath.Join(p.Root, filepath.FromSlash(path.Clean("/"+prefix)))
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Kind() string { return util.StorageMinio }

func (p *MinioStorageProvider) List(ctx context.Context, prefix string) ([]SheetObject, error) {
	var out []SheetObject
	opts := minio.ListObjectsOptions{Prefix: strings.Trim(prefix, "/") + "/"}
	for obj := range p.Client.ListObjects(ctx, p.Config.MinioBucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// 只取当前目录下的文件
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out = append(out, SheetObject{Key: obj.Key, Size: obj.Size, Modified: obj.LastModified})
	}
	return out, nil
}

func (p *MinioStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject 是惰性的，Stat 才能发现对象不存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Kind() string { return util.StorageOSS }

func (p *OSSStorageProvider) List(ctx context.Context, prefix string) ([]SheetObject, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return nil, err
	}

	var out []SheetObject
	token := ""
	for {
		opts := []oss.Option{oss.Prefix(strings.Trim(prefix, "/") + "/"), oss.Delimiter("/")}
		if token != "" {
			opts = append(opts, oss.ContinuationToken(token))
		}
		res, err := bucket.ListObjectsV2(opts...)
		if err != nil {
			return nil, err
		}
		for _, obj := range res.Objects {
			out = append(out, SheetObject{Key: obj.Key, Size: obj.Size, Modified: obj.LastModified})
		}
		if !res.IsTruncated {
			break
		}
		token = res.NextContinuationToken
	}
	return out, nil
}

func (p *OSSStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return nil, err
	}
	return bucket.GetObject(key, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx))
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(key, oss.WithContext(ctx))
}

// NewStorageProvider 按配置选择存储实现
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return NewMinioStorageProvider(cfg)
	case util.StorageOSS:
		return NewOSSStorageProvider(cfg)
	case util.StorageLocal, "":
		return &LocalStorageProvider{Root: cfg.LocalPath}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// sortObjects 按 key 排序，保证各实现结果稳定
func sortObjects(objs []SheetObject) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
}
