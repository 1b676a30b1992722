package controller

import (
	"errors"

	"shuati_backend/internal/service"
	"shuati_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GenerationController struct {
	Service *service.GenerationService
}

func NewGenerationController(s *service.GenerationService) *GenerationController {
	return &GenerationController{Service: s}
}

type generateRequest struct {
	SourceText string `json:"sourceText" binding:"required"`
	Count      int    `json:"count"`
}

// @Summary 根据学习材料生成题目候选
// @Description 远程模型不可用或未配置凭证时自动回退到离线生成器，
// @Description 回执的 fallback_used / fallback_reason 标明本次走了哪条路径
// @Tags 生成
// @Accept json
// @Produce json
// @Param body body generateRequest true "源文本与期望题数"
// @Success 200 {object} util.Response
// @Router /api/generation/questions [post]
func (c *GenerationController) Generate(ctx *gin.Context) {
	var req generateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Count <= 0 {
		req.Count = 3
	}

	result, err := c.Service.Generate(ctx.Request.Context(), req.SourceText, req.Count)
	if err != nil {
		if errors.Is(err, util.ErrEmptySourceText) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
