package controller

import "github.com/gin-gonic/gin"

// Controllers bundles every controller for route registration.
type Controllers struct {
	Auth     *AuthController
	User     *UserController
	Skill    *SkillController
	Quiz     *QuizController
	Match    *MatchController
	Exchange *ExchangeController
	Message  *MessageController
	Roadmap  *RoadmapController
	Health   *HealthController
}

// RegisterRoutes attaches every endpoint to the router. All routes except
// /health, /auth/register, /auth/login and /auth/refresh require a valid
// access token.
func RegisterRoutes(r *gin.Engine, c Controllers) {
	r.GET("/health", c.Health.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.Refresh)
		auth.GET("/profile", c.Auth.Profile)
	}

	users := r.Group("/users")
	{
		users.GET("", c.User.GetAllUsers)
		users.GET("/:id", c.User.GetUserByID)
		users.PUT("/:id", c.User.UpdateProfile)
		users.GET("/:id/feedback", c.Exchange.GetFeedback)
	}

	skills := r.Group("/skills")
	{
		skills.POST("/known", c.Skill.AddKnownSkill)
		skills.DELETE("/known/:skillName", c.Skill.RemoveKnownSkill)
		skills.GET("/known/:skillName/task", c.Skill.GetGenerationTask)
		skills.POST("/learning", c.Skill.AddSkillToLearn)
		skills.DELETE("/learning/:skillName", c.Skill.RemoveSkillToLearn)
	}

	quizzes := r.Group("/quizzes")
	{
		quizzes.POST("", c.Quiz.GenerateQuiz)
		quizzes.GET("/:id", c.Quiz.GetQuiz)
		quizzes.POST("/:id/attempts", c.Quiz.SubmitAttempt)
	}
	r.GET("/results", c.Quiz.GetResults)

	r.GET("/matches", c.Match.FindMatches)

	exchanges := r.Group("/exchanges")
	{
		exchanges.POST("", c.Exchange.CreateRequest)
		exchanges.GET("", c.Exchange.ListRequests)
		exchanges.PUT("/:id/status", c.Exchange.UpdateStatus)
		exchanges.POST("/:id/feedback", c.Exchange.SubmitFeedback)
	}

	messages := r.Group("/messages")
	{
		messages.POST("", c.Message.SendMessage)
		messages.GET("/conversations", c.Message.GetConversations)
		messages.GET("/conversations/:userId", c.Message.GetConversation)
		messages.PUT("/conversations/:userId/read", c.Message.MarkAsRead)
		messages.GET("/unread", c.Message.UnreadCount)
	}

	roadmaps := r.Group("/roadmaps")
	{
		roadmaps.POST("", c.Roadmap.GenerateRoadmap)
		roadmaps.GET("/:skillName", c.Roadmap.GetRoadmap)
		roadmaps.GET("/:skillName/pdf", c.Roadmap.ExportPDF)
	}
}
