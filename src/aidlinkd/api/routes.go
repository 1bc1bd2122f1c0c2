package api

import "github.com/gin-gonic/gin"

// RegisterRoutes configures all API routes on the given router
func (a *API) RegisterRoutes(router *gin.Engine) {
	// Root endpoint - API discovery
	router.GET("/", a.Base.HandleRoot)

	// Auth routes - delegate to auth.Handler
	authGroup := router.Group("/auth")
	authGroup.Use(a.rateLimitAuth())
	{
		authGroup.POST("/register", a.Auth.HandleRegister)
		authGroup.POST("/login", a.Auth.HandleLogin)
		authGroup.POST("/logout", a.Auth.HandleLogout)
		authGroup.POST("/refresh", a.Auth.HandleRefresh)
		authGroup.GET("/validate", a.Auth.HandleValidate)
		authGroup.POST("/verify", a.Auth.HandleVerify)
		authGroup.POST("/forgot-password", a.Auth.HandleForgotPassword)
		authGroup.POST("/reset-password", a.Auth.HandleResetPassword)
	}

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(a.localeMiddleware(), a.rateLimitAPI())
	{
		v1.GET("/health", a.Base.HandleHealth)
		v1.GET("/version", a.Base.HandleVersion)

		// Post routes - read operations (public)
		postsRead := v1.Group("/posts")
		{
			postsRead.GET("", a.Posts.HandleList)
			postsRead.POST("/search", a.Posts.HandleSearch)
			postsRead.GET("/:slug", a.Posts.HandleGet)
		}

		// Post routes - write operations (verified accounts only)
		postsWrite := v1.Group("/posts")
		postsWrite.Use(a.verifiedRequired())
		{
			postsWrite.POST("", a.Posts.HandleCreate)
			postsWrite.PUT("/:slug", a.Posts.HandleUpdate)
			postsWrite.DELETE("/:slug", a.Posts.HandleDelete)
			postsWrite.GET("/:slug/history", a.Posts.HandleHistory)
		}

		// Organization directory (public)
		orgs := v1.Group("/organizations")
		{
			orgs.GET("", a.Orgs.HandleList)
			orgs.GET("/:slug", a.Orgs.HandleGet)
		}

		// Profile routes - authenticated user only
		profileGroup := v1.Group("/profile")
		profileGroup.Use(a.authRequired())
		{
			profileGroup.GET("", a.Profile.HandleGet)
			profileGroup.PUT("", a.Profile.HandleUpdate)
			profileGroup.GET("/posts", a.Posts.HandleListOwn)

			if a.storage != nil {
				profileGroup.POST("/photo", a.Profile.HandleUploadPhoto)
			}
		}

		// Stored photos (public)
		if a.storage != nil {
			v1.GET("/photos/*key", a.Profile.HandleServePhoto)
		}

		// Language packs - read operations (public, clients need
		// translations before logging in)
		langPacks := v1.Group("/language-packs")
		{
			langPacks.GET("", a.LangPacks.HandleList)
			langPacks.GET("/:locale", a.LangPacks.HandleGet)
		}

		// Language packs - write operations (authenticated)
		langPacksWrite := v1.Group("/language-packs")
		langPacksWrite.Use(a.authRequired())
		{
			langPacksWrite.POST("", a.LangPacks.HandleUpload)
			langPacksWrite.DELETE("/:locale", a.LangPacks.HandleDelete)
		}
	}
}
