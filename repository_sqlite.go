package main

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository backs single-node deployments and local development.
// Day sets are stored as a comma-joined tag list.
type SQLiteRepository struct {
	db *sql.DB
}

var sqliteSchema = []string{
	`create table if not exists shows (
	   id integer primary key autoincrement,
	   title text not null,
	   start_time text not null,
	   end_time text not null,
	   days text not null
	 );`,
	`create table if not exists presenters (
	   id integer primary key autoincrement,
	   name text not null,
	   bio text not null default '',
	   show_id integer,
	   photo_url text not null default ''
	 );`,
	`create table if not exists comments (
	   id integer primary key autoincrement,
	   username text not null,
	   message text not null,
	   device_id text not null default '',
	   hidden integer not null default 0,
	   created_at timestamp not null
	 );`,
	`create table if not exists comment_reports (
	   id integer primary key autoincrement,
	   comment_id integer not null,
	   reported_by text not null default '',
	   reason text not null default '',
	   created_at timestamp not null
	 );`,
	`create table if not exists devices (
	   device_id text primary key,
	   role text not null default 'user',
	   active integer not null default 1
	 );`,
}

func NewSQLiteRepository(filePath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	// make sure the required tables exist
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteRepository{db: db}, nil
}

func joinDays(days []string) string {
	return strings.Join(days, ",")
}

func splitDays(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (r *SQLiteRepository) GetAllShows() ([]Show, error) {
	rows, err := r.db.Query(`select id, title, start_time, end_time, days
	  from shows order by start_time, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]Show, 0)
	for rows.Next() {
		s := Show{Presenters: []string{}}
		var days string
		if err = rows.Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, &days); err != nil {
			return nil, err
		}
		s.Days = splitDays(days)
		shows = append(shows, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = r.attachPresenters(shows); err != nil {
		return nil, err
	}
	return shows, nil
}

func (r *SQLiteRepository) attachPresenters(shows []Show) error {
	rows, err := r.db.Query(`select show_id, name from presenters order by id;`)
	if err != nil {
		return err
	}
	defer rows.Close()

	names := make(map[int64][]string)
	for rows.Next() {
		var showID sql.NullInt64
		var name string
		if err = rows.Scan(&showID, &name); err != nil {
			return err
		}
		if showID.Valid {
			names[showID.Int64] = append(names[showID.Int64], name)
		}
	}
	if err = rows.Err(); err != nil {
		return err
	}

	for i := range shows {
		if ns, ok := names[shows[i].ID]; ok {
			shows[i].Presenters = ns
		}
	}
	return nil
}

func (r *SQLiteRepository) GetShowByID(id int64) (*Show, error) {
	s := Show{Presenters: []string{}}
	var days string
	err := r.db.QueryRow(`select id, title, start_time, end_time, days
	  from shows where id=?;`, id).Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, &days)
	if err != nil {
		return nil, err
	}
	s.Days = splitDays(days)

	rows, err := r.db.Query(`select name from presenters where show_id=? order by id;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		s.Presenters = append(s.Presenters, name)
	}
	return &s, rows.Err()
}

func (r *SQLiteRepository) InsertShow(show Show) (int64, error) {
	res, err := r.db.Exec(`insert into shows (title, start_time, end_time, days)
	  values (?, ?, ?, ?);`,
		show.Title, show.StartTime, show.EndTime, joinDays(show.Days))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdateShow(show Show) error {
	res, err := r.db.Exec(`update shows set title=?, start_time=?, end_time=?, days=?
	  where id=?;`,
		show.Title, show.StartTime, show.EndTime, joinDays(show.Days), show.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRepository) DeleteShow(id int64) error {
	_, err := r.db.Exec(`delete from shows where id=?;`, id)
	return err
}

func (r *SQLiteRepository) GetPresenters() ([]Presenter, error) {
	rows, err := r.db.Query(`select id, name, bio, coalesce(show_id, 0), photo_url
	  from presenters order by id desc;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presenters := make([]Presenter, 0)
	for rows.Next() {
		p := Presenter{}
		if err = rows.Scan(&p.ID, &p.Name, &p.Bio, &p.ShowID, &p.PhotoURL); err != nil {
			return nil, err
		}
		presenters = append(presenters, p)
	}
	return presenters, rows.Err()
}

func (r *SQLiteRepository) GetPresenterByID(id int64) (*Presenter, error) {
	p := Presenter{}
	err := r.db.QueryRow(`select id, name, bio, coalesce(show_id, 0), photo_url
	  from presenters where id=?;`, id).Scan(&p.ID, &p.Name, &p.Bio, &p.ShowID, &p.PhotoURL)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) InsertPresenter(p Presenter) (int64, error) {
	res, err := r.db.Exec(`insert into presenters (name, bio, show_id, photo_url)
	  values (?, ?, nullif(?, 0), ?);`,
		p.Name, p.Bio, p.ShowID, p.PhotoURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) UpdatePresenter(p Presenter) error {
	res, err := r.db.Exec(`update presenters set name=?, bio=?, show_id=nullif(?, 0), photo_url=?
	  where id=?;`,
		p.Name, p.Bio, p.ShowID, p.PhotoURL, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRepository) DeletePresenter(id int64) error {
	_, err := r.db.Exec(`delete from presenters where id=?;`, id)
	return err
}

func (r *SQLiteRepository) InsertComment(c Comment) (int64, error) {
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.Exec(`insert into comments (username, message, device_id, hidden, created_at)
	  values (?, ?, ?, ?, ?);`,
		c.Username, c.Message, c.DeviceID, c.Hidden, created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetVisibleComments() ([]Comment, error) {
	rows, err := r.db.Query(`select id, username, message, device_id, hidden, created_at
	  from comments where hidden=0 order by created_at desc;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		c := Comment{}
		if err = rows.Scan(&c.ID, &c.Username, &c.Message, &c.DeviceID, &c.Hidden, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *SQLiteRepository) DeleteComment(id int64) error {
	res, err := r.db.Exec(`delete from comments where id=?;`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRepository) InsertReport(rep CommentReport) (int64, error) {
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.Exec(`insert into comment_reports (comment_id, reported_by, reason, created_at)
	  values (?, ?, ?, ?);`,
		rep.CommentID, rep.ReportedBy, rep.Reason, created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetReports() ([]CommentReport, error) {
	rows, err := r.db.Query(`select id, comment_id, reported_by, reason, created_at
	  from comment_reports order by created_at desc;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]CommentReport, 0)
	for rows.Next() {
		rep := CommentReport{}
		if err = rows.Scan(&rep.ID, &rep.CommentID, &rep.ReportedBy, &rep.Reason, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *SQLiteRepository) IsAdminDevice(deviceID string) (bool, error) {
	var one int
	err := r.db.QueryRow(`select 1 from devices where device_id=? and role='admin' and active=1 limit 1;`,
		deviceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteRepository) close() {
	r.db.Close()
}
