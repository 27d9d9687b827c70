package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Logger         logrus.FieldLogger
	IPs            ipHasher
	DB             pinger
	Auth           *AuthHandler
	AuthParser     accessTokenParser
	Portal         *PortalHandler
	Relationships  *RelationshipHandler
	Throttle       *IPThrottle
	AllowedOrigins []string
	TrustedProxies []string
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}

	router.Use(
		RequestID(),
		Recovery(deps.Logger),
		RequestLogger(deps.Logger, deps.IPs),
		CORSMiddleware(deps.AllowedOrigins, true),
	)

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/healthz", Healthz(deps.DB))
	router.GET("/openapi.json", OpenAPIDoc)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh)
	auth.POST("/logout", deps.Auth.Logout)
	auth.GET("/config", deps.Auth.Config)
	auth.GET("/me", AuthMiddleware(deps.AuthParser), deps.Auth.Me)

	portal := api.Group("/portal")
	if deps.Throttle != nil {
		portal.Use(deps.Throttle.Middleware())
	}
	portal.POST("/consent", deps.Portal.Consent)
	portal.POST("/pin", deps.Portal.SetPin)
	portal.POST("/pin/verify", deps.Portal.VerifyPin)
	portal.POST("/pin/remove", deps.Portal.RemovePin)
	portal.POST("/status", deps.Portal.Status)
	portal.GET("/:portalToken/session", deps.Portal.RequirePortalSession(), deps.Portal.Session)

	relationships := api.Group("/relationships", AuthMiddleware(deps.AuthParser))
	relationships.POST("", deps.Relationships.CreateRelationship)
	relationships.GET("/:id", deps.Relationships.GetRelationshipAccess)
	relationships.DELETE("/:id", deps.Relationships.ArchiveRelationship)

	return router, nil
}
