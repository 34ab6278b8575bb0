package main

import (
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"skillvouch-backend/internal/config"
	"skillvouch-backend/internal/controller"
	"skillvouch-backend/internal/db"
	"skillvouch-backend/internal/llm"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/internal/service"
	"skillvouch-backend/pkg/logging"
	"skillvouch-backend/pkg/middleware"
	"skillvouch-backend/utilities"
)

const version = "1.0.0"

func main() {
	printStartUpBanner()

	// .env is optional; secrets may also come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Init("logs")
	utilities.InitJWT(cfg.Authentication)

	db.InitDBFromConfig(cfg)
	if err := db.GetDB().AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.QuizResult{},
		&model.GenerationTask{},
		&model.ExchangeRequest{},
		&model.ExchangeFeedback{},
		&model.Message{},
		&model.Roadmap{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository()
	quizRepo := repository.NewQuizRepository()
	exchangeRepo := repository.NewExchangeRepository()
	messageRepo := repository.NewMessageRepository()
	roadmapRepo := repository.NewRoadmapRepository()

	generator := llm.NewMistralClient(cfg.AI)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	skillService := service.NewSkillService(userRepo, utilities.GlobalEventBus)
	quizService := service.NewQuizService(quizRepo, userRepo, generator, cfg.AI)
	matchService := service.NewMatchService(userRepo, generator, cfg.Matching)
	exchangeService := service.NewExchangeService(exchangeRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)
	roadmapService := service.NewRoadmapService(roadmapRepo, userRepo, generator, cfg.AI)

	service.InitQuizEventListeners(utilities.GlobalEventBus, quizService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utilities.RateLimitMiddleware(cfg.RateLimit))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	r.Use(utilities.AuthMiddleware())

	controller.RegisterRoutes(r, controller.Controllers{
		Auth:     controller.NewAuthController(authService, userService),
		User:     controller.NewUserController(userService),
		Skill:    controller.NewSkillController(skillService, quizService),
		Quiz:     controller.NewQuizController(quizService),
		Match:    controller.NewMatchController(matchService),
		Exchange: controller.NewExchangeController(exchangeService),
		Message:  controller.NewMessageController(messageService),
		Roadmap:  controller.NewRoadmapController(roadmapService),
		Health:   controller.NewHealthController(),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	logging.Info("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("SKILLVOUCH", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("SKILLVOUCH API (v%s)\n\n", version)
}
