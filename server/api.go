package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/turnon/taskpage/tasklist/common"
)

const mod = "api"

// ApplicationInterface 网页服务
type ApplicationInterface struct {
	listen   string
	ch       chan struct{}
	ctx      context.Context
	tasks    common.Tasklist
	pageSize int
}

func newApi(ctx context.Context, cfg *config, tasks common.Tasklist) *ApplicationInterface {
	api := &ApplicationInterface{
		ctx:      ctx,
		listen:   cfg.Listen,
		tasks:    tasks,
		pageSize: cfg.PageSize,
	}
	api.start()
	return api
}

// wait 等待退出
func (api *ApplicationInterface) wait() chan struct{} {
	return api.ch
}

// logErr 输出日志
func (api *ApplicationInterface) logErr(err error) {
	log.Error().Str("mod", mod).Err(err).Send()
}

func (api *ApplicationInterface) start() {
	api.ch = make(chan struct{})

	gin.SetMode(gin.ReleaseMode)

	router := newRouter(api.tasks, api.pageSize)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "HX-Request", "HX-Target"},
	}).Handler(router)

	httpSrv := &http.Server{
		Addr:    api.listen,
		Handler: handler,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			api.logErr(err)
		}
	}()

	go func() {
		<-api.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpSrv.Shutdown(ctx)
		if err == nil {
			log.Info().Str("mod", mod).Msg("shutdown")
		} else {
			api.logErr(err)
		}
		close(api.ch)
	}()
}

// newRouter 注册路由
func newRouter(tasks common.Tasklist, pageSize int) *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(pageTemplates())

	h := &taskHandlers{tasks: tasks, pageSize: pageSize}

	router.GET("/", h.root)
	router.GET("/static/app.css", h.stylesheet)

	router.GET("/tasks", h.listTasks)
	router.GET("/tasks/fragment", h.listFragment)
	router.POST("/tasks", h.addTask)
	router.POST("/tasks/:id/delete", h.deleteTask)
	router.GET("/tasks/:id/edit", h.editTaskForm)
	router.POST("/tasks/:id/edit", h.editTask)
	router.GET("/tasks/:id/view", h.viewTask)

	return router
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := xid.New().String()
		ctx.Set("request_id", id)
		ctx.Writer.Header().Set("X-Request-Id", id)
		ctx.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()
		ctx.Next()
		log.
			Info().
			Str("mod", mod).
			Str("req", ctx.GetString("request_id")).
			Int("code", ctx.Writer.Status()).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.RequestURI).
			TimeDiff("latency", time.Now(), startTime).
			Send()
	}
}
