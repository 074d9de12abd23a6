/*
Package project - 项目 API 控制器

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
3. 调用方凭证取自 Authorization: Bearer <token>
*/
package project

import (
	"net/http"
	"strconv"
	"strings"

	"ddd-skeleton/api/ctxutil"
	"ddd-skeleton/api/response"
	projectapp "ddd-skeleton/application/project"
	"ddd-skeleton/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controller 项目控制器
type Controller struct {
	create   *projectapp.CreateProject
	get      *projectapp.GetProject
	addOwner *projectapp.AddOwner
	allocate *projectapp.AllocateBudget
	list     *projectapp.ListOwnerProjects
}

// NewController 创建项目控制器
func NewController(
	create *projectapp.CreateProject,
	get *projectapp.GetProject,
	addOwner *projectapp.AddOwner,
	allocate *projectapp.AllocateBudget,
	list *projectapp.ListOwnerProjects,
) *Controller {
	return &Controller{
		create:   create,
		get:      get,
		addOwner: addOwner,
		allocate: allocate,
		list:     list,
	}
}

// RegisterRoutes 注册项目路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	projectGroup := router.Group("/projects")
	{
		projectGroup.POST("", c.CreateProject)
		projectGroup.GET("/:id", c.GetProject)
		projectGroup.POST("/:id/owners", c.AddOwner)
		projectGroup.POST("/:id/budget", c.AllocateBudget)
	}
	router.GET("/owners/:email/projects", c.ListOwnerProjects)
}

// CreateProject 创建项目
// POST /api/v1/projects
func (c *Controller) CreateProject(ctx *gin.Context) {
	var req projectapp.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	resp, err := c.create.Execute(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		if resp == nil {
			response.HandleAppError(ctx, err)
			return
		}
		// 项目已经保存，只是通知没有送达
		logger.FromContext(ctx.Request.Context()).Warn("Project created without notifying every owner",
			logger.ProjectID(resp.ID),
			zap.Error(err))
		response.HandleCreated(ctx, resp, "project created, some owners were not notified")
		return
	}

	response.HandleCreated(ctx, resp, "project created successfully")
}

// GetProject 获取项目
// GET /api/v1/projects/:id
func (c *Controller) GetProject(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	resp, err := c.get.Execute(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "project retrieved successfully")
}

// AddOwner 添加负责人，调用方必须是现有负责人
// POST /api/v1/projects/:id/owners
func (c *Controller) AddOwner(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req projectapp.AddOwnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	req.ProjectID = id
	req.Token = bearerToken(ctx)

	resp, err := c.addOwner.Execute(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		if resp == nil {
			response.HandleAppError(ctx, err)
			return
		}
		logger.FromContext(ctx.Request.Context()).Warn("Owner added without notification",
			logger.ProjectID(resp.ID),
			zap.Error(err))
	}

	response.HandleSuccess(ctx, resp, "owner added successfully")
}

// AllocateBudget 追加预算，调用方必须是现有负责人
// POST /api/v1/projects/:id/budget
func (c *Controller) AllocateBudget(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req projectapp.AllocateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	req.ProjectID = id
	req.Token = bearerToken(ctx)

	resp, err := c.allocate.Execute(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "budget allocated successfully")
}

// ListOwnerProjects 列出负责人名下项目
// GET /api/v1/owners/:email/projects
func (c *Controller) ListOwnerProjects(ctx *gin.Context) {
	resp, err := c.list.Execute(ctxutil.WithRequestID(ctx), ctx.Param("email"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleList(ctx, resp, "projects retrieved successfully")
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.HandleError(ctx, err, "project id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
