package controller

import (
	"errors"
	"io"

	"shuati_backend/internal/model"
	"shuati_backend/internal/service"
	"shuati_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(s *service.QuestionService) *QuestionController {
	return &QuestionController{Service: s}
}

type createSetRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// @Summary 创建题集
// @Tags 题集
// @Accept json
// @Produce json
// @Param body body createSetRequest true "题集信息"
// @Success 201 {object} util.Response
// @Router /api/question-sets [post]
func (c *QuestionController) CreateSet(ctx *gin.Context) {
	var req createSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	set, err := c.Service.CreateSet(req.Title, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, set)
}

// @Summary 题集列表
// @Tags 题集
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/question-sets [get]
func (c *QuestionController) ListSets(ctx *gin.Context) {
	sets, err := c.Service.ListSets()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sets)
}

// @Summary 题集详情
// @Tags 题集
// @Produce json
// @Param id path int true "题集ID"
// @Success 200 {object} util.Response
// @Router /api/question-sets/{id} [get]
func (c *QuestionController) GetSet(ctx *gin.Context) {
	set, err := c.Service.GetSet(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuestionSetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, set)
}

// @Summary 删除题集
// @Tags 题集
// @Produce json
// @Param id path int true "题集ID"
// @Success 200 {object} util.Response
// @Router /api/question-sets/{id} [delete]
func (c *QuestionController) DeleteSet(ctx *gin.Context) {
	if err := c.Service.DeleteSet(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrQuestionSetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 题集下的题目列表
// @Tags 题集
// @Produce json
// @Param id path int true "题集ID"
// @Success 200 {object} util.Response
// @Router /api/question-sets/{id}/questions [get]
func (c *QuestionController) ListSetQuestions(ctx *gin.Context) {
	questions, err := c.Service.GetQuestionsBySet(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuestionSetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type importRequest struct {
	Candidates []model.Candidate `json:"candidates" binding:"required"`
}

// @Summary 批量导入题目
// @Description 逐条校验候选题目，合法子集在单个事务内入库，回执含逐题错误
// @Tags 题目
// @Accept json
// @Produce json
// @Param id path int true "题集ID"
// @Param body body importRequest true "候选题目列表"
// @Success 200 {object} util.Response
// @Router /api/question-sets/{id}/import [post]
func (c *QuestionController) ImportBatch(ctx *gin.Context) {
	setID := util.MustParseUint(ctx.Param("id"))
	if _, err := c.Service.GetSet(setID); err != nil {
		if errors.Is(err, util.ErrQuestionSetNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	var req importRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.Service.ImportBatch(ctx.Request.Context(), setID, req.Candidates))
}

// @Summary 导入 Markdown 文档
// @Description 解析文档为题目候选后批量导入；不携带题集ID时按文档标题新建题集
// @Tags 题目
// @Accept mpfd
// @Produce json
// @Param file formData file true "Markdown 文件"
// @Param setId formData int false "目标题集ID"
// @Success 200 {object} util.Response
// @Router /api/question-sets/import-document [post]
func (c *QuestionController) ImportDocument(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文档文件")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	setID := util.MustParseUint(ctx.PostForm("setId"))
	result, createdSetID, err := c.Service.ImportDocument(ctx.Request.Context(), setID, header.Filename, string(content))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionSetNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEmptyDocument):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"setId": createdSetID, "result": result})
}

// @Summary 题目详情
// @Tags 题目
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	question, err := c.Service.GetQuestion(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 搜索题目
// @Tags 题目
// @Produce json
// @Param keyword query string false "题干或答案关键字"
// @Param type query string false "题型"
// @Param difficulty query int false "难度 1-5"
// @Param tag query string false "知识点标签（精确匹配）"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) Search(ctx *gin.Context) {
	questions, err := c.Service.Search(
		ctx.Query("keyword"),
		ctx.Query("type"),
		util.ParseIntDefault(ctx.Query("difficulty"), 0),
		ctx.Query("tag"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
