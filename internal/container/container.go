package container

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/saulo-duarte/quizard/internal/aiquiz"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/dashboard"
	"github.com/saulo-duarte/quizard/internal/dispatch"
	"github.com/saulo-duarte/quizard/internal/engagement"
	"github.com/saulo-duarte/quizard/internal/hub"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/saulo-duarte/quizard/internal/presenter"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/router"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/subject"
	"github.com/saulo-duarte/quizard/internal/user"
)

const loopBuffer = 64

// Container owns the single session of the process and every feature wired to it.
type Container struct {
	Settings  config.Settings
	DB        *gorm.DB
	Store     *storage.Store
	Holder    *identity.Holder
	Navigator *navigation.Navigator
	Loop      *dispatch.Loop
	Presenter *presenter.Presenter
	Hub       *hub.Hub

	UserContainer       *user.UserContainer
	SubjectContainer    *subject.Container
	QuizContainer       *quiz.QuizContainer
	AttemptContainer    *attempt.AttemptContainer
	ClassroomContainer  *classroom.Container
	EngagementContainer *engagement.Container
	DashboardContainer  *dashboard.Container
	AIQuizContainer     *aiquiz.AIQuizContainer

	redis *redis.Client
}

// New connects to the configured database and wires everything on top of it.
func New(ctx context.Context, s config.Settings) (*Container, error) {
	db, err := config.Connect(ctx, s)
	if err != nil {
		return nil, err
	}
	return Build(ctx, s, db), nil
}

func Build(ctx context.Context, s config.Settings, db *gorm.DB) *Container {
	c := &Container{
		Settings:  s,
		DB:        db,
		Store:     storage.New(db, s.DBTimeout),
		Holder:    identity.NewHolder(),
		Loop:      dispatch.NewLoop(loopBuffer),
		Hub:       hub.New(),
	}
	c.Navigator = navigation.NewNavigator(c.Holder)

	cache := quiz.NopCache()
	if s.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		cache = quiz.NewRedisCache(c.redis, s.QuizCacheTTL)
		config.WithContext(ctx).WithField("addr", s.RedisAddr).Info("Quiz cache enabled")
	}

	c.EngagementContainer = engagement.NewContainer(c.Store)
	c.UserContainer = user.NewUserContainer(c.Store, c.Navigator, s.JWTTTL)
	c.SubjectContainer = subject.NewContainer(c.Store)
	c.QuizContainer = quiz.NewQuizContainer(c.Store, cache, c.EngagementContainer.Service)
	c.AttemptContainer = attempt.NewAttemptContainer(c.Store, c.QuizContainer.Service, c.Navigator)
	c.ClassroomContainer = classroom.NewContainer(c.Store)
	c.DashboardContainer = dashboard.NewContainer(c.Store,
		c.AttemptContainer.Service,
		c.ClassroomContainer.Service,
		c.QuizContainer.Service,
	)
	c.AIQuizContainer = aiquiz.NewAIQuizContainer(ctx, s.GeminiAPIKey)

	builder := presenter.NewScreenBuilder(c.Holder,
		c.DashboardContainer.Service,
		c.SubjectContainer.Service,
		c.ClassroomContainer.Service,
		c.QuizContainer.Service,
		c.AttemptContainer.Service,
	)
	c.Presenter = presenter.New(c.Loop, c.Navigator, builder)
	c.Presenter.OnView(func(v presenter.View) {
		c.Hub.Publish("view", v)
	})

	return c
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		Holder:            c.Holder,
		UserHandler:       c.UserContainer.Handler,
		LogoutHandler:     auth.NewHandler(c.Navigator),
		SubjectHandler:    c.SubjectContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		AttemptHandler:    c.AttemptContainer.Handler,
		ClassroomHandler:  c.ClassroomContainer.Handler,
		EngagementHandler: c.EngagementContainer.Handler,
		DashboardHandler:  c.DashboardContainer.Handler,
		AIQuizHandler:     c.AIQuizContainer.Handler,
		ScreenHandler:     presenter.NewHandler(c.Navigator, c.Presenter),
		Events:            c.Hub,
	})
}

// Migrate creates or updates every table.
func (c *Container) Migrate() error {
	return c.DB.AutoMigrate(Models()...)
}

func Models() []interface{} {
	models := user.Models()
	models = append(models, subject.Models()...)
	models = append(models, quiz.Models()...)
	models = append(models, attempt.Models()...)
	models = append(models, classroom.Models()...)
	models = append(models, engagement.Models()...)
	return models
}

// Close stops the presenter and releases external clients. The database pool
// is closed by its owner.
func (c *Container) Close() {
	c.Presenter.Close()
	c.Loop.Close()
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			config.Logger().WithError(err).Warn("Failed to close redis client")
		}
	}
}
