package main

type ShowRepository interface {
	GetAllShows() ([]Show, error)
	GetShowByID(id int64) (*Show, error)
	InsertShow(show Show) (int64, error)
	UpdateShow(show Show) error
	DeleteShow(id int64) error
	close()
}

type PresenterRepository interface {
	GetPresenters() ([]Presenter, error)
	GetPresenterByID(id int64) (*Presenter, error)
	InsertPresenter(p Presenter) (int64, error)
	UpdatePresenter(p Presenter) error
	DeletePresenter(id int64) error
	close()
}

type CommentRepository interface {
	InsertComment(c Comment) (int64, error)
	GetVisibleComments() ([]Comment, error)
	DeleteComment(id int64) error
	InsertReport(r CommentReport) (int64, error)
	GetReports() ([]CommentReport, error)
	close()
}

type DeviceRepository interface {
	IsAdminDevice(deviceID string) (bool, error)
	close()
}
