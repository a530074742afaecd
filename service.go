// this file wires the repositories, the schedule engine and the prober
// into the service consumed by the HTTP handlers
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	AllShows() []Show
	CreateShow(s Show) (*Show, error)
	UpdateShow(s Show) (*Show, error)
	DeleteShow(id int64) error
	NowPlaying(now time.Time) *Show

	Presenters() ([]Presenter, error)
	PresenterByID(id int64) (*Presenter, error)
	CreatePresenter(p Presenter) (*Presenter, error)
	UpdatePresenter(p Presenter) (*Presenter, error)
	DeletePresenter(id int64) error

	PostComment(username, message, deviceID string) (*Comment, error)
	VisibleComments() ([]Comment, error)
	DeleteComment(id int64) error
	ReportComment(commentID int64, reason, reporter string) error
	Reports() ([]CommentReport, error)

	IsAdmin(deviceID string) bool
	StreamURL() string
	StreamHealth() LivenessResult
	Location() *time.Location

	close()
}

type ServiceImpl struct {
	showRepo      ShowRepository
	presenterRepo PresenterRepository
	commentRepo   CommentRepository
	deviceRepo    DeviceRepository

	loc          *time.Location
	streamURL    string
	probeTimeout time.Duration
	bannedWords  []string
}

// AllShows reads the catalog, substituting the static fallback when the
// store is unreachable or empty so callers never see a storage error.
func (s *ServiceImpl) AllShows() []Show {
	shows, err := s.showRepo.GetAllShows()
	if err != nil {
		log.Println("shows query failed, serving fallback catalog:", err)
		return fallbackShows
	}
	if len(shows) == 0 {
		return fallbackShows
	}
	return shows
}

func (s *ServiceImpl) CreateShow(show Show) (*Show, error) {
	if err := validateShow(show); err != nil {
		return nil, err
	}
	id, err := s.showRepo.InsertShow(show)
	if err != nil {
		return nil, err
	}
	return s.showRepo.GetShowByID(id)
}

func (s *ServiceImpl) UpdateShow(show Show) (*Show, error) {
	if err := validateShow(show); err != nil {
		return nil, err
	}
	if err := s.showRepo.UpdateShow(show); err != nil {
		return nil, err
	}
	return s.showRepo.GetShowByID(show.ID)
}

func (s *ServiceImpl) DeleteShow(id int64) error {
	return s.showRepo.DeleteShow(id)
}

// NowPlaying resolves the show on air at now against the current catalog
// (or the fallback catalog when the store is down).
func (s *ServiceImpl) NowPlaying(now time.Time) *Show {
	return resolveActive(s.AllShows(), now, s.loc)
}

func (s *ServiceImpl) Presenters() ([]Presenter, error) {
	return s.presenterRepo.GetPresenters()
}

func (s *ServiceImpl) PresenterByID(id int64) (*Presenter, error) {
	return s.presenterRepo.GetPresenterByID(id)
}

func (s *ServiceImpl) CreatePresenter(p Presenter) (*Presenter, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	id, err := s.presenterRepo.InsertPresenter(p)
	if err != nil {
		return nil, err
	}
	return s.presenterRepo.GetPresenterByID(id)
}

func (s *ServiceImpl) UpdatePresenter(p Presenter) (*Presenter, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if err := s.presenterRepo.UpdatePresenter(p); err != nil {
		return nil, err
	}
	return s.presenterRepo.GetPresenterByID(p.ID)
}

func (s *ServiceImpl) DeletePresenter(id int64) error {
	return s.presenterRepo.DeletePresenter(id)
}

// PostComment stores a comment, hiding it right away when the word filter
// trips. Anonymous posters get a generated guest device ID.
func (s *ServiceImpl) PostComment(username, message, deviceID string) (*Comment, error) {
	if message == "" {
		return nil, fmt.Errorf("message required")
	}
	if username == "" {
		username = "Guest"
	}
	if deviceID == "" {
		deviceID = "guest_" + uuid.New().String()
	}

	c := Comment{
		Username:  username,
		Message:   message,
		DeviceID:  deviceID,
		Hidden:    containsOffensive(s.bannedWords, message),
		CreatedAt: time.Now(),
	}
	id, err := s.commentRepo.InsertComment(c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (s *ServiceImpl) VisibleComments() ([]Comment, error) {
	return s.commentRepo.GetVisibleComments()
}

func (s *ServiceImpl) DeleteComment(id int64) error {
	return s.commentRepo.DeleteComment(id)
}

func (s *ServiceImpl) ReportComment(commentID int64, reason, reporter string) error {
	if reason == "" {
		reason = "inappropriate"
	}
	if reporter == "" {
		reporter = "Anonymous"
	}
	_, err := s.commentRepo.InsertReport(CommentReport{
		CommentID:  commentID,
		ReportedBy: reporter,
		Reason:     reason,
	})
	return err
}

func (s *ServiceImpl) Reports() ([]CommentReport, error) {
	return s.commentRepo.GetReports()
}

func (s *ServiceImpl) IsAdmin(deviceID string) bool {
	if deviceID == "" {
		return false
	}
	ok, err := s.deviceRepo.IsAdminDevice(deviceID)
	if err != nil {
		log.Println("device lookup failed:", err)
		return false
	}
	return ok
}

func (s *ServiceImpl) StreamURL() string {
	return s.streamURL
}

func (s *ServiceImpl) StreamHealth() LivenessResult {
	return probeStream(s.streamURL, s.probeTimeout)
}

func (s *ServiceImpl) Location() *time.Location {
	return s.loc
}

func (s *ServiceImpl) close() {
	s.showRepo.close()
	s.presenterRepo.close()
	s.commentRepo.close()
	s.deviceRepo.close()
}

// validateShow rejects rows the schedule engine would have to skip anyway.
func validateShow(s Show) error {
	if s.Title == "" {
		return fmt.Errorf("title required")
	}
	if len(s.Days) == 0 {
		return fmt.Errorf("at least one day tag required")
	}
	for _, d := range s.Days {
		if !hasDay(dayTags[:], d) {
			return fmt.Errorf("unknown day tag %q", d)
		}
	}
	if _, _, _, err := parseTimeOfDay(s.StartTime); err != nil {
		return err
	}
	if _, _, _, err := parseTimeOfDay(s.EndTime); err != nil {
		return err
	}
	return nil
}
