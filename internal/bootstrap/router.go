package bootstrap

import (
	"log"
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
	"github.com/pinpost-app/pinpost-backend/internal/api/http/middleware"
	"github.com/pinpost-app/pinpost-backend/internal/auth"
	"github.com/pinpost-app/pinpost-backend/internal/blob"
	"github.com/pinpost-app/pinpost-backend/internal/friends"
	"github.com/pinpost-app/pinpost-backend/internal/images"
	"github.com/pinpost-app/pinpost-backend/internal/posts"
	"github.com/pinpost-app/pinpost-backend/internal/search"
	"github.com/pinpost-app/pinpost-backend/internal/users"
)

// maxBodyBytes caps JSON request bodies; base64 image payloads dominate.
const maxBodyBytes = 10 << 20

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Cache       *redis.Client
	Photos      *blob.Container
	Profiles    *blob.Container
	AuthClient  *fbauth.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())
	r.Use(limitBody(maxBodyBytes))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(auth.WithIdentity(dep.AuthClient))

	userRepo := users.NewRepo(dep.DB)
	postRepo := posts.NewRepo(dep.DB)
	friendRepo := friends.NewRepo(dep.DB)
	tagRepo := search.NewTagRepo(dep.DB)

	var postBlobs posts.BlobDeleter
	if dep.Photos != nil {
		postBlobs = dep.Photos
	}

	users.Register(api, userRepo)
	posts.Register(api, postRepo, postBlobs)
	friends.Register(api, friendRepo)
	search.Register(api, search.NewService(userRepo, tagRepo, dep.Cache))

	if dep.Photos != nil && dep.Profiles != nil {
		images.Register(api, dep.Photos, dep.Profiles, postRepo)
	} else {
		log.Println("blob containers not configured, image routes disabled")
	}

	return r
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
