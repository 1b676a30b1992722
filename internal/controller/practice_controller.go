package controller

import (
	"errors"

	"shuati_backend/internal/service"
	"shuati_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	Service *service.PracticeService
}

func NewPracticeController(s *service.PracticeService) *PracticeController {
	return &PracticeController{Service: s}
}

type recordAttemptRequest struct {
	QuestionID       uint   `json:"questionId" binding:"required"`
	UserAnswer       string `json:"userAnswer"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

// @Summary 记录一次作答
// @Description 正确性在提交时按题型判定一次，之后不再重算
// @Tags 练习
// @Accept json
// @Produce json
// @Param body body recordAttemptRequest true "作答内容"
// @Success 201 {object} util.Response
// @Router /api/attempts [post]
func (c *PracticeController) RecordAttempt(ctx *gin.Context) {
	var req recordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.RecordAttempt(req.QuestionID, req.UserAnswer, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNegativeTimeSpent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

type recordSkipRequest struct {
	QuestionID       uint `json:"questionId" binding:"required"`
	TimeSpentSeconds int  `json:"timeSpentSeconds"`
}

// @Summary 记录一次跳过
// @Description 跳过计入题集进度统计，不进错题本
// @Tags 练习
// @Accept json
// @Produce json
// @Param body body recordSkipRequest true "跳过的题目"
// @Success 201 {object} util.Response
// @Router /api/attempts/skip [post]
func (c *PracticeController) RecordSkip(ctx *gin.Context) {
	var req recordSkipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.RecordSkip(req.QuestionID, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNegativeTimeSpent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

// @Summary 题目的作答记录
// @Tags 练习
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/attempts [get]
func (c *PracticeController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.Service.GetAttempts(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary 错题聚合
// @Description 返回错过至少一次的题目及累计错误次数，可按知识点标签过滤
// @Tags 练习
// @Produce json
// @Param tag query string false "知识点标签（精确匹配）"
// @Success 200 {object} util.Response
// @Router /api/mistakes [get]
func (c *PracticeController) ListMistakes(ctx *gin.Context) {
	entries, err := c.Service.GetMistakesByTag(ctx.Query("tag"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary 题集练习进度
// @Tags 练习
// @Produce json
// @Param id path int true "题集ID"
// @Success 200 {object} util.Response
// @Router /api/question-sets/{id}/progress [get]
func (c *PracticeController) GetSetProgress(ctx *gin.Context) {
	progress, err := c.Service.GetSetProgress(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuestionSetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
