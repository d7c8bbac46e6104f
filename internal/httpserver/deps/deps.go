package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/otramalaga/civicmap/internal/bookmarks"
	"github.com/otramalaga/civicmap/internal/geocode"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/mapview"
	"github.com/otramalaga/civicmap/internal/media"
	"github.com/otramalaga/civicmap/internal/session"
	"github.com/otramalaga/civicmap/internal/sources/styles"
	"github.com/otramalaga/civicmap/internal/wizard"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	RedisClient *redis.Client // Redis client connection
	Bookmarks   *bookmarks.Service
	Sessions    *session.Manager
	MapSessions *mapview.Sessions
	Wizards     *wizard.Manager
	Geocoder    *geocode.Client
	Suggester   *geocode.Suggester
	Uploader    *media.Uploader // nil when media storage is disabled
	Styles      *styles.Sheet

	RefreshTrigger chan struct{} // Channel to trigger manual collection refresh
	AllowedOrigins []string      // CORS origins for the browser frontend
}
