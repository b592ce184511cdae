package util

const (
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	RoleAdmin = "admin"
)

// 表格上传相关常量
const (
	MimeText        = "text/"
	MimeCSV         = "text/csv"
	MimePNG         = "image/png"
	MaxUploadSize   = 8 << 20
	RequestIDHeader = "X-Request-ID"
)

var (
	AllowedSheetExtensions = []string{".csv", ".txt"}
)
