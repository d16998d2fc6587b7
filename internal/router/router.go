package router

import (
	"net/http"
	"time"

	"Campus_QA/internal/handler"
	"Campus_QA/internal/middleware"
	"Campus_QA/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	User         *handler.UserHandler
	Post         *handler.PostHandler
	Answer       *handler.AnswerHandler
	Auth         *middleware.Auth
	AllowOrigins []string
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300 * time.Second,
	}))

	api := r.Group("/api/v1")
	api.Use(gin.Logger())

	api.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// 用户相关接口
	userGroup := api.Group("/user")
	{
		userGroup.POST("/register", d.User.Register)
		userGroup.POST("/login", d.User.Login)
	}

	// token相关接口
	api.POST("/token/refresh", d.User.TokenRefresh)

	// 登录态接口
	authGroup := api.Group("/auth")
	authGroup.Use(d.Auth.Required())
	{
		authGroup.POST("/logout", d.User.Logout)
		authGroup.GET("/me", d.User.Me)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(d.Auth.Required(), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.PUT("/users/:userId/role", d.User.SetRole)
	}

	// 帖子相关接口
	postGroup := api.Group("/posts")
	{
		postGroup.GET("", d.Post.ListPosts)
		postGroup.GET("/:postId", d.Auth.Optional(), d.Post.GetPost)
		postGroup.POST("", d.Auth.Required(), d.Post.CreatePost)
		postGroup.DELETE("/:postId", d.Auth.Required(), d.Post.DeletePost)
		postGroup.POST("/:postId/answers", d.Auth.Required(), d.Answer.Create)
	}

	// 回答相关接口
	answerGroup := api.Group("/answers")
	{
		answerGroup.GET("/:answerId", d.Answer.Get)
		answerGroup.DELETE("/:answerId", d.Auth.Required(), d.Answer.Delete)
	}

	return r
}
