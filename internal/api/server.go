package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"wolontariat-api/docs"
	v1 "wolontariat-api/internal/api/handler/v1"
	"wolontariat-api/internal/api/middleware"
	"wolontariat-api/internal/config"
	"wolontariat-api/internal/repository"
	"wolontariat-api/internal/repository/dao"
	"wolontariat-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	organizationHandler := s.initOrganizationHandler(db)
	offerHandler := s.initOfferHandler(db)
	reviewHandler := s.initReviewHandler(db)
	s.MountHandlers(authHandler, userHandler, organizationHandler, offerHandler, reviewHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	reviewRepo := repository.NewReviewRepository(dao.NewReviewDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))

	svc := service.NewUserService(userRepo)
	certSvc := service.NewReviewService(reviewRepo, offerRepo, userRepo, orgRepo)
	handler := v1.NewUserHandler(svc, certSvc)

	return handler
}

func (s *Server) initOrganizationHandler(db *gorm.DB) *v1.OrganizationHandler {
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	svc := service.NewOrganizationService(orgRepo)
	offerSvc := service.NewOfferService(offerRepo, userRepo, orgRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewOrganizationHandler(svc, offerSvc, uSvc)

	return handler
}

func (s *Server) initOfferHandler(db *gorm.DB) *v1.OfferHandler {
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	reviewRepo := repository.NewReviewRepository(dao.NewReviewDAO(db))

	svc := service.NewOfferService(offerRepo, userRepo, orgRepo)
	certSvc := service.NewReviewService(reviewRepo, offerRepo, userRepo, orgRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewOfferHandler(svc, certSvc, uSvc)

	return handler
}

func (s *Server) initReviewHandler(db *gorm.DB) *v1.ReviewHandler {
	reviewRepo := repository.NewReviewRepository(dao.NewReviewDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))

	svc := service.NewReviewService(reviewRepo, offerRepo, userRepo, orgRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewReviewHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	organizationHandler *v1.OrganizationHandler,
	offerHandler *v1.OfferHandler,
	reviewHandler *v1.ReviewHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/me", userHandler.HandleGetMe)
		authenticated.GET("/users/me/certificate", userHandler.HandleSummaryCertificate)
		authenticated.GET("/users/volunteers", userHandler.HandleGetVolunteers)
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)

		authenticated.GET("/organizations", organizationHandler.HandleGetOrganizations)
		authenticated.POST("/organizations", organizationHandler.HandleCreateOrganization)
		authenticated.GET("/organizations/:organizationID", organizationHandler.HandleGetOrganization)
		authenticated.DELETE("/organizations/:organizationID", organizationHandler.HandleDeleteOrganization)

		authenticated.GET("/projects", organizationHandler.HandleGetProjects)
		authenticated.POST("/projects", organizationHandler.HandleCreateProject)
		authenticated.GET("/projects/:projectID", organizationHandler.HandleGetProject)
		authenticated.DELETE("/projects/:projectID", organizationHandler.HandleDeleteProject)
		authenticated.GET("/projects/:projectID/offers", organizationHandler.HandleGetProjectOffers)

		authenticated.GET("/offers", offerHandler.HandleGetOffers)
		authenticated.POST("/offers", offerHandler.HandleCreateOffer)
		authenticated.GET("/offers/my-offers", offerHandler.HandleMyOffers)
		authenticated.GET("/offers/:offerID", offerHandler.HandleGetOffer)
		authenticated.DELETE("/offers/:offerID", offerHandler.HandleDeleteOffer)
		authenticated.GET("/offers/:offerID/participations", offerHandler.HandleGetParticipations)
		authenticated.GET("/offers/:offerID/certificate", offerHandler.HandleGetCertificate)
		authenticated.POST("/offers/:offerID/apply", offerHandler.HandleApply)
		authenticated.POST("/offers/:offerID/withdraw", offerHandler.HandleWithdraw)
		authenticated.POST("/offers/:offerID/confirm", offerHandler.HandleConfirm)
		authenticated.POST("/offers/:offerID/approve-completion", offerHandler.HandleApproveCompletion)
		authenticated.POST("/offers/:offerID/assign", offerHandler.HandleAssign)
		authenticated.POST("/offers/:offerID/close", offerHandler.HandleClose)

		authenticated.GET("/reviews", reviewHandler.HandleGetReviews)
		authenticated.POST("/reviews", reviewHandler.HandleCreateReview)
		authenticated.PUT("/reviews/:reviewID", reviewHandler.HandleUpdateReview)
		authenticated.DELETE("/reviews/:reviewID", reviewHandler.HandleDeleteReview)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Wolontariat API"
	docs.SwaggerInfo.Description = "Volunteer coordination API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
