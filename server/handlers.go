package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turnon/taskpage/tasklist/common"
)

const blankTitleMsg = "Title must not be blank"

// renderMode 渲染模式, 每个请求只判定一次
type renderMode int

const (
	fullPage renderMode = iota
	fragment
)

// renderModeOf 根据请求头判定渲染模式
func renderModeOf(ctx *gin.Context) renderMode {
	if ctx.GetHeader("HX-Request") == "true" {
		return fragment
	}
	return fullPage
}

// taskHandlers 任务页面的处理器
type taskHandlers struct {
	tasks    common.Tasklist
	pageSize int
}

// listView 列表页渲染数据
type listView struct {
	Page     common.Page
	Query    string
	Status   string
	Error    string
	EditTask common.Task
}

// itemView 单个任务渲染数据
type itemView struct {
	Task   common.Task
	Status string
}

// root 跳转到列表页
func (h *taskHandlers) root(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/tasks")
}

// stylesheet 返回样式表
func (h *taskHandlers) stylesheet(ctx *gin.Context) {
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "text/css; charset=utf-8", []byte(appCSS))
}

// listTasks 列表页, 整页或局部
func (h *taskHandlers) listTasks(ctx *gin.Context) {
	view, err := h.buildListView(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	if renderModeOf(ctx) == fragment {
		ctx.HTML(http.StatusOK, "listFragment", view)
		return
	}
	ctx.HTML(http.StatusOK, "page", view)
}

// listFragment 永远只返回局部
func (h *taskHandlers) listFragment(ctx *gin.Context) {
	view, err := h.buildListView(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "listFragment", view)
}

// addTask 新建任务
func (h *taskHandlers) addTask(ctx *gin.Context) {
	mode := renderModeOf(ctx)

	title := strings.TrimSpace(ctx.PostForm("title"))
	if title == "" {
		if mode == fragment {
			ctx.HTML(http.StatusBadRequest, "error", blankTitleMsg)
			return
		}
		ctx.Redirect(http.StatusSeeOther, "/tasks?error=blank")
		return
	}

	t, err := h.tasks.Add(ctx.Request.Context(), title)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	if mode == fragment {
		ctx.HTML(http.StatusCreated, "itemFragment", itemView{
			Task:   t,
			Status: fmt.Sprintf("Added task %d", t.ID),
		})
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/tasks")
}

// deleteTask 删除任务, 无论成败都回到列表
func (h *taskHandlers) deleteTask(ctx *gin.Context) {
	mode := renderModeOf(ctx)
	id, _ := strconv.Atoi(ctx.Param("id"))

	removed, err := h.tasks.Delete(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	if mode == fragment {
		status := fmt.Sprintf("Deleted task %d", id)
		if !removed {
			status = fmt.Sprintf("Task %d not found", id)
		}
		ctx.HTML(http.StatusOK, "statusOnly", listView{Status: status})
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/tasks")
}

// editTaskForm 编辑表单, 局部或带编辑标记的整页
func (h *taskHandlers) editTaskForm(ctx *gin.Context) {
	id, _ := strconv.Atoi(ctx.Param("id"))

	t, found, err := h.tasks.Find(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if !found {
		ctx.HTML(http.StatusNotFound, "error", "Task not found")
		return
	}

	errMsg := ""
	if ctx.Query("error") == "blank" {
		errMsg = blankTitleMsg
	}

	if renderModeOf(ctx) == fragment {
		ctx.HTML(http.StatusOK, "editRow", listView{EditTask: t, Error: errMsg})
		return
	}

	view, err := h.buildListView(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	view.EditTask = t
	view.Error = errMsg
	ctx.HTML(http.StatusOK, "page", view)
}

// editTask 保存编辑
func (h *taskHandlers) editTask(ctx *gin.Context) {
	mode := renderModeOf(ctx)
	id, _ := strconv.Atoi(ctx.Param("id"))

	t, found, err := h.tasks.Find(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if !found {
		ctx.HTML(http.StatusNotFound, "error", "Task not found")
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	if title == "" {
		if mode == fragment {
			ctx.HTML(http.StatusBadRequest, "error", blankTitleMsg)
			return
		}
		ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/tasks/%d/edit?error=blank", id))
		return
	}

	t.Title = title
	if err := h.tasks.Update(ctx.Request.Context(), t); err != nil {
		h.fail(ctx, err)
		return
	}

	if mode == fragment {
		ctx.HTML(http.StatusOK, "itemFragment", itemView{
			Task:   t,
			Status: fmt.Sprintf("Updated task %d", t.ID),
		})
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/tasks")
}

// viewTask 只读的单个任务
func (h *taskHandlers) viewTask(ctx *gin.Context) {
	id, _ := strconv.Atoi(ctx.Param("id"))

	t, found, err := h.tasks.Find(ctx.Request.Context(), id)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if !found {
		ctx.HTML(http.StatusNotFound, "error", "Task not found")
		return
	}

	if renderModeOf(ctx) == fragment {
		ctx.HTML(http.StatusOK, "itemFragment", itemView{Task: t})
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/tasks")
}

// buildListView 按查询参数组装列表页数据
func (h *taskHandlers) buildListView(ctx *gin.Context) (listView, error) {
	query := ctx.Query("q")
	pageNum, _ := strconv.Atoi(ctx.Query("page"))

	page, err := h.tasks.Search(ctx.Request.Context(), query, pageNum, h.pageSize)
	if err != nil {
		return listView{}, err
	}

	view := listView{
		Page:   page,
		Query:  strings.TrimSpace(query),
		Status: resultStatus(page.Total, strings.TrimSpace(query)),
	}

	if ctx.Query("error") == "blank" {
		view.Error = blankTitleMsg
	}

	if editID, _ := strconv.Atoi(ctx.Query("edit")); editID > 0 {
		if t, found, findErr := h.tasks.Find(ctx.Request.Context(), editID); findErr == nil && found {
			view.EditTask = t
		}
	}

	return view, nil
}

// fail 以500收场
func (h *taskHandlers) fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.HTML(http.StatusInternalServerError, "error", "Something went wrong")
}

func resultStatus(total int, query string) string {
	word := "tasks"
	if total == 1 {
		word = "task"
	}
	if query == "" {
		return fmt.Sprintf("%d %s", total, word)
	}
	return fmt.Sprintf("%d %s matching %q", total, word, query)
}
