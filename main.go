package main

import (
	"log"
	"net/url"
	"os"
	"time"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Println("ignoring bad duration for", key, ":", v)
		return fallback
	}
	return d
}

func main() {

	var (
		showRepo      ShowRepository
		presenterRepo PresenterRepository
		commentRepo   CommentRepository
		deviceRepo    DeviceRepository

		dbUrl string
	)

	dbUrl = getEnv("DB_URL", "sqlite://db.sqlite3")
	log.Println("database url", dbUrl)
	if u, err := url.Parse(dbUrl); err == nil {
		switch u.Scheme {
		case "sqlite":
			path := u.Hostname() + u.Path
			if path == "" {
				path = "db.sqlite3"
			}
			sqlitedb, err := NewSQLiteRepository(path)
			if err != nil {
				log.Fatal("sqlite open failed: ", err)
			}
			showRepo = sqlitedb
			presenterRepo = sqlitedb
			commentRepo = sqlitedb
			deviceRepo = sqlitedb

		case "postgres":
			pgdb, err := NewPostgresRepository(dbUrl)
			if err != nil {
				log.Fatal("postgres open failed: ", err)
			}
			showRepo = pgdb
			presenterRepo = pgdb
			commentRepo = pgdb
			deviceRepo = pgdb

		default:
			log.Fatal("unsupported DB_URL scheme: ", u.Scheme)
		}
	} else {
		log.Fatal("bad DB_URL: ", err)
	}

	// the station runs on one fixed civil timezone
	loc, err := time.LoadLocation(getEnv("STATION_TZ", "Africa/Nairobi"))
	if err != nil {
		log.Fatal("bad STATION_TZ: ", err)
	}

	svc := &ServiceImpl{
		showRepo:      showRepo,
		presenterRepo: presenterRepo,
		commentRepo:   commentRepo,
		deviceRepo:    deviceRepo,
		loc:           loc,
		streamURL:     os.Getenv("RADIO_STREAM"),
		probeTimeout:  getEnvDuration("STREAM_PROBE_TIMEOUT", defaultProbeTimeout),
		bannedWords:   loadBannedWords(),
	}
	defer svc.close()

	uploads := getEnv("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(uploads, 0o755); err != nil {
		log.Fatal("upload dir: ", err)
	}

	fallbackPlayer := &FallbackPlayer{}
	secret := []byte(getEnv("ADMIN_JWT_SECRET", "uplands-secret"))

	echoRouter := NewHTTPRouter(svc, fallbackPlayer, secret, uploads)
	echoRouter.Logger.Fatal(echoRouter.Start(":" + getEnv("PORT", "5001")))
}
