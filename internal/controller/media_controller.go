package controller

import (
	"strings"

	"shuati_backend/internal/service"
	"shuati_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	Service *service.MediaService
}

func NewMediaController(s *service.MediaService) *MediaController {
	return &MediaController{Service: s}
}

// @Summary 上传题目附件
// @Description 图片直接入库存储；视频额外探测元数据并生成封面帧。
// @Description 返回的 ref 可写入题目的 mediaRefs 字段
// @Tags 媒体
// @Accept mpfd
// @Produce json
// @Param file formData file true "附件文件"
// @Success 200 {object} util.Response
// @Router /api/media/upload [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少附件文件")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "video/") {
		result, info, err := c.Service.UploadVideo(ctx.Request.Context(), header.Filename, contentType, file, header.Size)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"media": result, "video": info})
		return
	}

	result, err := c.Service.UploadMedia(ctx.Request.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"media": result})
}
