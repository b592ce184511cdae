package util

import (
	"errors"
	"net/http"

	"league_stats/internal/scoresheet"
	"league_stats/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DataErrorDetail 表格数据错误的定位信息
type DataErrorDetail struct {
	Kind   string `json:"kind"`
	Column string `json:"column,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Value  string `json:"value,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// UnprocessableEntity 表格内容无法解析
func UnprocessableEntity(c *gin.Context, err error) {
	detail := DataErrorDetail{Kind: scoresheet.ErrorKind(err)}
	var de *scoresheet.DataError
	if errors.As(err, &de) {
		detail.Column = de.Column
		detail.Value = de.Value
		if de.Row >= 0 {
			row := de.Row
			detail.Row = &row
		}
	}
	c.JSON(http.StatusUnprocessableEntity, Response{
		Code:    http.StatusUnprocessableEntity,
		Message: err.Error(),
		Data:    detail,
	})
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")))
	InternalServerError(c)
}

// HandleError 按错误类型选择响应状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case scoresheet.IsDataError(err):
		UnprocessableEntity(c, err)
	case errors.Is(err, ErrSeriesNotFound),
		errors.Is(err, ErrRoundNotFound),
		errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrTopicNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, scoresheet.ErrUnknownSplitKey),
		errors.Is(err, scoresheet.ErrUnknownQuestionOrder),
		errors.Is(err, ErrInvalidRound),
		errors.Is(err, ErrAmbiguousGame),
		errors.Is(err, ErrInvalidUploadType):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrReadOnlySource):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSourceUnavailable):
		logger.Log.Warn("Sheet source unavailable", zap.Error(err), zap.String("path", c.Request.URL.Path))
		Error(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrNoChartData):
		NotFound(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
