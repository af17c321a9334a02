// file: routes/router.go
package routes

import (
	"time"

	"github.com/KANlKA/CTF-Platform/controllers"
	"github.com/KANlKA/CTF-Platform/middlewares"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps 路由依赖，全部在 main 里构造好再传进来
type Deps struct {
	Tokens      *utils.TokenManager
	Limiter     *middlewares.RateLimiter
	Users       *controllers.UserController
	Challenges  *controllers.ChallengeController
	Attachments *controllers.AttachmentController
	Discussions *controllers.DiscussionController
	Leaderboard *controllers.LeaderboardController
	Chat        *controllers.ChatController

	AllowedOrigins []string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth := middlewares.JWTAuth(d.Tokens)

	api := r.Group("/api")
	// 全局限流：同一 IP 15 分钟 100 次
	api.Use(d.Limiter.PerIP("global", 100, 15*time.Minute))
	{
		api.POST("/register", d.Users.Register)
		api.POST("/login", d.Users.Login)
		api.POST("/logout", auth, d.Users.Logout)
		api.POST("/forgot-password", d.Users.ForgotPassword)
		api.POST("/reset-password", d.Users.ResetPassword)

		profileRoutes := api.Group("/profile")
		profileRoutes.Use(auth)
		{
			profileRoutes.GET("", d.Users.GetProfile)
			profileRoutes.PUT("", d.Users.UpdateProfile)
			profileRoutes.PUT("/password", d.Users.ChangePassword)
		}

		userRoutes := api.Group("/user")
		userRoutes.Use(auth)
		{
			userRoutes.GET("/rank", d.Leaderboard.Rank)
			userRoutes.GET("/solved-challenges", d.Leaderboard.SolvedChallenges)
			userRoutes.GET("/todo", d.Users.ListTodo)
			userRoutes.POST("/todo", d.Users.AddTodo)
			userRoutes.DELETE("/todo/:challengeId", d.Users.RemoveTodo)
		}

		challengeRoutes := api.Group("/challenges")
		challengeRoutes.Use(auth)
		{
			challengeRoutes.GET("", d.Challenges.List)
			challengeRoutes.POST("",
				d.Limiter.PerUser("create_challenge", 3, 15*time.Minute),
				d.Challenges.Create)
			challengeRoutes.GET("/difficulty/:level", d.Challenges.ListByDifficulty)
			challengeRoutes.GET("/:id", d.Challenges.Get)
			challengeRoutes.POST("/:id/submit",
				d.Limiter.PerUser("submit_flag", 30, 15*time.Minute),
				d.Challenges.Submit)
			challengeRoutes.GET("/:id/hints", d.Challenges.ListHints)
			challengeRoutes.POST("/:id/use-hint", d.Challenges.UseHint)
			challengeRoutes.POST("/:id/files", d.Attachments.Upload)
		}
		api.GET("/attachments/:id/download", auth, d.Attachments.Download)

		discussionRoutes := api.Group("/discussions")
		discussionRoutes.Use(auth)
		{
			discussionRoutes.GET("", d.Discussions.List)
			discussionRoutes.POST("", d.Discussions.Create)
			discussionRoutes.GET("/tags/popular", d.Discussions.PopularTags)
			discussionRoutes.GET("/:id", d.Discussions.Get)
			discussionRoutes.POST("/:id/comments", d.Discussions.AddComment)
			discussionRoutes.POST("/:id/vote", d.Discussions.VoteDiscussion)
			discussionRoutes.POST("/:id/solution", d.Discussions.MarkSolution)
		}
		api.POST("/comments/:id/vote", auth, d.Discussions.VoteComment)

		// 排行榜游客可见
		api.GET("/leaderboard", middlewares.TryAuth(d.Tokens), d.Leaderboard.List)

		api.POST("/chat",
			auth,
			d.Limiter.PerUser("chat", 15, time.Minute),
			d.Chat.Message)
	}

	return r
}
