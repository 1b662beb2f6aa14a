package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/docflow/document-flow-api/internal/database"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/repository"
	"github.com/docflow/document-flow-api/internal/services"
	"github.com/docflow/document-flow-api/internal/storage"
)

type testEnv struct {
	db            *gorm.DB
	blobs         *storage.LocalStore
	authService   *services.AuthService
	docService    *services.DocumentService
	reportService *services.ReportService
	tokenService  *services.TokenService
	userRepo      repository.UserRepository
	docRepo       repository.DocumentRepository
	sigRepo       repository.SignatureRepository
	authHandler   *AuthHandler
	docHandler    *DocumentHandler
	reportHandler *ReportHandler
	userHandler   *UserHandler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Signature{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	sigRepo := repository.NewSignatureRepository(db)

	tokenService := services.NewTokenService("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, tokenService)
	docService := services.NewDocumentService(docRepo, sigRepo, blobs)
	reportService := services.NewReportService(docRepo, sigRepo, userRepo, blobs)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:            db,
		blobs:         blobs,
		authService:   authService,
		docService:    docService,
		reportService: reportService,
		tokenService:  tokenService,
		userRepo:      userRepo,
		docRepo:       docRepo,
		sigRepo:       sigRepo,
		authHandler:   NewAuthHandler(authService),
		docHandler:    NewDocumentHandler(docService),
		reportHandler: NewReportHandler(reportService),
		userHandler:   NewUserHandler(authService),
	}
}

// registerUser creates a user through the service, as clients would.
func registerUser(t *testing.T, env testEnv, email, name string) *models.User {
	t.Helper()

	result, err := env.authService.Register(services.RegisterInput{
		Email:    email,
		Password: "supersecret",
		Name:     name,
	})
	require.NoError(t, err)
	return result.User
}

// uploadDocument creates a document owned by the actor with stored content.
func uploadDocument(t *testing.T, env testEnv, actor *models.User, title, fileName, content string) *models.Document {
	t.Helper()

	doc, err := env.docService.Upload(services.UploadInput{
		ActorID:  actor.ID,
		Content:  stringReader(content),
		FileName: fileName,
		FileSize: int64(len(content)),
		MimeType: "text/plain",
		Title:    title,
	})
	require.NoError(t, err)
	return doc
}

func stringReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

// setStatus moves a document into the given status as its owner would.
func setStatus(t *testing.T, env testEnv, actor *models.User, doc *models.Document, status models.DocumentStatus) *models.Document {
	t.Helper()

	updated, err := env.docService.Update(actor, doc.ID, services.UpdateInput{
		Status: &status,
	})
	require.NoError(t, err)
	return updated
}
