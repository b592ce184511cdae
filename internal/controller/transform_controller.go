package controller

import (
	"bytes"
	"fmt"
	"io"

	"league_stats/internal/model"
	"league_stats/internal/service"
	"league_stats/internal/util"

	"github.com/gin-gonic/gin"
)

// readUpload 读取 multipart 中的 file 字段并做类型校验
func readUpload(ctx *gin.Context) ([]byte, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field", util.ErrInvalidUploadType)
	}
	if fh.Size > util.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", util.ErrInvalidUploadType, fh.Size, util.MaxUploadSize)
	}
	if !util.IsSheetFile(fh.Filename) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidUploadType, fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, util.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if _, err := util.ValidateMimeType(bytes.NewReader(data), []string{util.MimeText}); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidUploadType, err)
	}
	return data, nil
}

type TransformController struct {
	Series *service.SeriesService
}

func NewTransformController(s *service.SeriesService) *TransformController {
	return &TransformController{Series: s}
}

// @Summary 转换上传的表格
// @Description 把比赛记分表（四行表头的 CSV）转换为长表，不写入任何系列
// @Tags 转换
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Param round formData string false "轮次号"
// @Success 200 {object} util.Response{data=model.TransformResult}
// @Failure 400 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /transform [post]
func (c *TransformController) Transform(ctx *gin.Context) {
	data, err := readUpload(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	round := ctx.PostForm("round")
	if round != "" {
		if round, err = service.NormalizeRound(round); err != nil {
			util.HandleError(ctx, err)
			return
		}
	}

	answers, err := c.Series.TransformBytes(ctx.Request.Context(), data, round)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, model.TransformResult{Round: round, Rows: len(answers), Answers: answers})
}
