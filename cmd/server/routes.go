package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	authapi "github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/endpoints"
	deviceapi "github.com/Lumen-Tech-LLC/lumen/internal/http/api/device/endpoints"
	"github.com/Lumen-Tech-LLC/lumen/internal/storage"
	"github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, reconciler *sync.Reconciler, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
			"X-If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
			"X-Content-ETag",
		},
		AllowCredentials: false,
	}))

	// device polling surface; device_id in the payload is the identity
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/scheduling/api/v1/device",
	},
		deviceapi.SyncModule(reconciler),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/scheduling/api/v1",
	},
		deviceapi.AssetFileModule(),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/players/api",
	},
		deviceapi.RegisterModule(),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
	},
		authapi.AuthSessionModule(env.SecretKey),
		adminapi.GroupModule(),
		adminapi.PlayerModule(),
		adminapi.ContentModule(storageSystem),
		adminapi.PlaylistModule(),
		adminapi.ScheduleModule(),
		adminapi.EmergencyModule(),
		adminapi.CommandModule(),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
