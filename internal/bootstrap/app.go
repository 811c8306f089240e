package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/interviews"
	"jobtracker-backend/internal/resumes"
	"jobtracker-backend/internal/shared/config"
	"jobtracker-backend/internal/shared/server"
	"jobtracker-backend/internal/shared/storage/db"
	"jobtracker-backend/internal/shared/storage/object"
	localstore "jobtracker-backend/internal/shared/storage/object/local"
	s3store "jobtracker-backend/internal/shared/storage/object/s3"
	"jobtracker-backend/internal/templates"
	"jobtracker-backend/internal/uploads"
	"jobtracker-backend/resume/encode"
	"jobtracker-backend/resume/merge"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	TemplateRepo    templates.Repo
	ApplicationRepo applications.Repo
	InterviewRepo   interviews.Repo
	ResumeRepo      resumes.Repo
	UploadRepo      uploads.Repo

	TemplateService    *templates.Service
	ApplicationService *applications.Service
	InterviewService   *interviews.Service
	ResumeService      *resumes.Service
	UploadService      *uploads.Service

	TemplateHandler    *templates.Handler
	ApplicationHandler *applications.Handler
	InterviewHandler   *interviews.Handler
	ResumeHandler      *resumes.Handler
	UploadHandler      *uploads.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		TemplateHandler:    app.TemplateHandler,
		ApplicationHandler: app.ApplicationHandler,
		InterviewHandler:   app.InterviewHandler,
		ResumeHandler:      app.ResumeHandler,
		UploadHandler:      app.UploadHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildEncoder(cfg config.Config) *encode.Encoder {
	var pdf encode.Converter
	if cfg.PDFEngine == "chrome" {
		pdf = &encode.ChromePDF{ExecPath: cfg.ChromePath}
	}
	return encode.NewEncoder(pdf, encode.WordDOCX{})
}

func buildServices(app *App) {
	var (
		templateRepo    templates.Repo
		applicationRepo applications.Repo
		interviewRepo   interviews.Repo
		resumeRepo      resumes.Repo
		uploadRepo      uploads.Repo
	)

	if app.DB != nil {
		templateRepo = &templates.PGRepo{DB: app.DB}
		applicationRepo = &applications.PGRepo{DB: app.DB}
		interviewRepo = &interviews.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		uploadRepo = &uploads.PGRepo{DB: app.DB}
	} else {
		memTemplates := templates.NewMemoryRepo()
		memResumes := resumes.NewMemoryRepo()
		// The in-memory template repo needs the resume repo to enforce the
		// restricted delete; in Postgres the query does it.
		memTemplates.Refs = memResumes
		templateRepo = memTemplates
		applicationRepo = applications.NewMemoryRepo()
		interviewRepo = interviews.NewMemoryRepo()
		resumeRepo = memResumes
		uploadRepo = uploads.NewMemoryRepo()
	}

	templateSvc := &templates.Service{Repo: templateRepo}
	applicationSvc := &applications.Service{Repo: applicationRepo}
	interviewSvc := &interviews.Service{Repo: interviewRepo, Applications: applicationRepo}
	resumeSvc := &resumes.Service{
		Repo:         resumeRepo,
		Templates:    templateRepo,
		Applications: applicationRepo,
		Merger:       merge.FullReplace{},
		Encoder:      buildEncoder(app.Config),
		Store:        app.Store,
	}
	uploadSvc := &uploads.Service{
		Repo:         uploadRepo,
		Applications: applicationRepo,
		Store:        app.Store,
	}

	app.TemplateRepo = templateRepo
	app.ApplicationRepo = applicationRepo
	app.InterviewRepo = interviewRepo
	app.ResumeRepo = resumeRepo
	app.UploadRepo = uploadRepo
	app.TemplateService = templateSvc
	app.ApplicationService = applicationSvc
	app.InterviewService = interviewSvc
	app.ResumeService = resumeSvc
	app.UploadService = uploadSvc
	app.TemplateHandler = templates.NewHandler(templateSvc)
	app.ApplicationHandler = applications.NewHandler(applicationSvc)
	app.InterviewHandler = interviews.NewHandler(interviewSvc, applicationRepo)
	app.ResumeHandler = resumes.NewHandler(resumeSvc, templateRepo, applicationRepo, app.Store)
	app.UploadHandler = uploads.NewHandler(uploadSvc, app.Store)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
