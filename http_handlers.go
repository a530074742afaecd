package main

// this file contains implementation of HTTP handlers - REST API

import (
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

var (
	jwtSecret []byte
	service   Service
	player    *FallbackPlayer
	uploadDir string
)

func NewHTTPRouter(_service Service, _player *FallbackPlayer, secret []byte, _uploadDir string) *echo.Echo {
	service = _service
	player = _player
	jwtSecret = secret
	uploadDir = _uploadDir

	r := echo.New()
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))
	r.Use(middleware.CORS())

	r.GET("/", rootHandler)
	r.Static("/uploads", uploadDir)

	router := r.Group("/api")

	router.GET("/shows", listShowsHandler)
	router.GET("/shows/now", nowPlayingHandler)
	router.POST("/shows", createShowHandler)
	router.PUT("/shows/:id", updateShowHandler)
	router.DELETE("/shows/:id", deleteShowHandler)

	router.GET("/presenters", listPresentersHandler)
	router.GET("/presenters/:id", getPresenterHandler)
	router.POST("/presenters", createPresenterHandler)
	router.PUT("/presenters/:id", updatePresenterHandler)
	router.DELETE("/presenters/:id", deletePresenterHandler)

	router.GET("/comments", listCommentsHandler)
	router.POST("/comments", postCommentHandler)
	router.DELETE("/comments/:id", deleteCommentHandler)
	router.POST("/report-comment", reportCommentHandler)
	router.GET("/reports", listReportsHandler)

	router.GET("/stream/health", streamHealthHandler)
	router.GET("/live-stream", liveStreamHandler)
	router.GET("/live-stream/proxy", liveStreamProxyHandler)

	fallbackGroup := router.Group("/fallback")
	{
		fallbackGroup.GET("", getFallbackHandler)
		fallbackGroup.POST("/set", setFallbackHandler)
		fallbackGroup.POST("/play", playFallbackHandler)
		fallbackGroup.POST("/stop", stopFallbackHandler)
	}

	router.GET("/check-admin", checkAdminHandler)
	router.POST("/admin/login", adminLoginHandler)
	router.POST("/upload_presenter_image", uploadPresenterImageHandler)

	return r
}

func rootHandler(c echo.Context) error {
	return c.String(http.StatusOK, "Uplands API Running")
}

// requireAdmin accepts either an admin device (X-Device-ID header, checked
// against the devices table) or a token from /api/admin/login.
func requireAdmin(c echo.Context) bool {
	if service.IsAdmin(c.Request().Header.Get("X-Device-ID")) {
		return true
	}
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	return err == nil && token.Valid
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
}

func listShowsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, service.AllShows())
}

func nowPlayingHandler(c echo.Context) error {
	now := time.Now().In(service.Location())
	return c.JSON(http.StatusOK, service.NowPlaying(now))
}

func createShowHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	form := Show{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}
	show, err := service.CreateShow(form)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, show)
}

func updateShowHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	form := Show{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}
	form.ID = id
	show, err := service.UpdateShow(form)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Show not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, show)
}

func deleteShowHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	if err := service.DeleteShow(id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete show"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func listPresentersHandler(c echo.Context) error {
	presenters, err := service.Presenters()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch presenters"})
	}
	return c.JSON(http.StatusOK, presenters)
}

func getPresenterHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	p, err := service.PresenterByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, p)
}

func createPresenterHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	form := Presenter{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}
	p, err := service.CreatePresenter(form)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, p)
}

func updatePresenterHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	form := Presenter{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}
	form.ID = id
	p, err := service.UpdatePresenter(form)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}

func deletePresenterHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	if err := service.DeletePresenter(id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete presenter"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func listCommentsHandler(c echo.Context) error {
	comments, err := service.VisibleComments()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch comments"})
	}
	return c.JSON(http.StatusOK, comments)
}

func postCommentHandler(c echo.Context) error {
	form := struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}
	comment, err := service.PostComment(form.Username, form.Message, c.Request().Header.Get("X-Device-ID"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, comment)
}

func deleteCommentHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad id"})
	}
	if err := service.DeleteComment(id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func reportCommentHandler(c echo.Context) error {
	form := struct {
		CommentID int64  `json:"commentId"`
		Reason    string `json:"reason"`
	}{}
	if err := c.Bind(&form); err != nil || form.CommentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "commentId required"})
	}
	reporter := c.Request().Header.Get("X-Device-ID")
	if err := service.ReportComment(form.CommentID, form.Reason, reporter); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to report comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func listReportsHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	reports, err := service.Reports()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch reports"})
	}
	return c.JSON(http.StatusOK, reports)
}

func streamHealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, service.StreamHealth())
}

func liveStreamHandler(c echo.Context) error {
	now := time.Now().In(service.Location())
	return c.JSON(http.StatusOK, echo.Map{
		"url":  service.StreamURL(),
		"show": service.NowPlaying(now),
	})
}

// liveStreamProxyHandler pipes the upstream audio stream through to the
// client, for players that cannot reach the stream host directly.
func liveStreamProxyHandler(c echo.Context) error {
	streamURL := service.StreamURL()
	if streamURL == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "No stream configured"})
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, streamURL, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to proxy stream"})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to proxy stream"})
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func getFallbackHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, player.State())
}

func setFallbackHandler(c echo.Context) error {
	form := struct {
		URL string `json:"url"`
	}{}
	if err := c.Bind(&form); err != nil || form.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Stream URL required"})
	}
	player.SetStream(form.URL)
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Fallback stream updated",
		"currentStream": player.State(),
	})
}

func playFallbackHandler(c echo.Context) error {
	player.Play()
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Fallback stream playing",
		"currentStream": player.State(),
	})
}

func stopFallbackHandler(c echo.Context) error {
	player.Stop()
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Fallback stream stopped",
		"currentStream": player.State(),
	})
}

func checkAdminHandler(c echo.Context) error {
	deviceID := c.QueryParam("device_id")
	return c.JSON(http.StatusOK, echo.Map{"isAdmin": service.IsAdmin(deviceID)})
}

func adminLoginHandler(c echo.Context) error {
	form := struct {
		DeviceID string `json:"device_id"`
	}{}
	if err := c.Bind(&form); err != nil || form.DeviceID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "device_id required"})
	}
	if !service.IsAdmin(form.DeviceID) {
		return forbidden(c)
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["device_id"] = form.DeviceID
	claims["exp"] = time.Now().Add(time.Hour * 72).Unix()
	t, err := token.SignedString(jwtSecret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"token": t})
}

func uploadPresenterImageHandler(c echo.Context) error {
	if !requireAdmin(c) {
		return forbidden(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed"})
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		log.Println("upload create failed:", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed"})
	}
	defer dst.Close()
	if _, err = io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"url": "/uploads/" + name})
}
