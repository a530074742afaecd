package main

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(dbURL string) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetAllShows() ([]Show, error) {
	query := `
	  select id, title, start_time, end_time, days
	  from shows
	  order by start_time, id;`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]Show, 0)
	for rows.Next() {
		s := Show{Presenters: []string{}}
		err = rows.Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, pq.Array(&s.Days))
		if err != nil {
			return nil, err
		}
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

// attachPresenters fills Presenters on each show from one query
func (r *PostgresRepository) attachPresenters(shows []Show) error {
	query := `select show_id, name from presenters order by id;`

	rows, err := r.db.Query(query)
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

func (r *PostgresRepository) GetShowByID(id int64) (*Show, error) {
	query := `
	  select id, title, start_time, end_time, days
	  from shows where id=$1;`

	s := Show{Presenters: []string{}}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, pq.Array(&s.Days))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`select name from presenters where show_id=$1 order by id;`, id)
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

func (r *PostgresRepository) InsertShow(show Show) (int64, error) {
	query := `
	  insert into shows (title, start_time, end_time, days)
	  values ($1, $2, $3, $4)
	  returning id;`

	var id int64
	err := r.db.QueryRow(query, show.Title, show.StartTime, show.EndTime,
		pq.Array(show.Days)).Scan(&id)
	return id, err
}

func (r *PostgresRepository) UpdateShow(show Show) error {
	query := `
	  update shows
	  set title=$1, start_time=$2, end_time=$3, days=$4
	  where id=$5;`

	res, err := r.db.Exec(query, show.Title, show.StartTime, show.EndTime,
		pq.Array(show.Days), show.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) DeleteShow(id int64) error {
	_, err := r.db.Exec(`delete from shows where id=$1;`, id)
	return err
}

func (r *PostgresRepository) GetPresenters() ([]Presenter, error) {
	query := `
	  select id, name, coalesce(bio, ''), coalesce(show_id, 0), coalesce(photo_url, '')
	  from presenters
	  order by id desc;`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presenters := make([]Presenter, 0)
	for rows.Next() {
		p := Presenter{}
		err = rows.Scan(&p.ID, &p.Name, &p.Bio, &p.ShowID, &p.PhotoURL)
		if err != nil {
			return nil, err
		}
		presenters = append(presenters, p)
	}
	return presenters, rows.Err()
}

func (r *PostgresRepository) GetPresenterByID(id int64) (*Presenter, error) {
	query := `
	  select id, name, coalesce(bio, ''), coalesce(show_id, 0), coalesce(photo_url, '')
	  from presenters where id=$1;`

	p := Presenter{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Bio, &p.ShowID, &p.PhotoURL)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) InsertPresenter(p Presenter) (int64, error) {
	query := `
	  insert into presenters (name, bio, show_id, photo_url)
	  values ($1, $2, nullif($3, 0), $4)
	  returning id;`

	var id int64
	err := r.db.QueryRow(query, p.Name, p.Bio, p.ShowID, p.PhotoURL).Scan(&id)
	return id, err
}

func (r *PostgresRepository) UpdatePresenter(p Presenter) error {
	query := `
	  update presenters
	  set name=$1, bio=$2, show_id=nullif($3, 0), photo_url=$4
	  where id=$5;`

	res, err := r.db.Exec(query, p.Name, p.Bio, p.ShowID, p.PhotoURL, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) DeletePresenter(id int64) error {
	_, err := r.db.Exec(`delete from presenters where id=$1;`, id)
	return err
}

func (r *PostgresRepository) InsertComment(c Comment) (int64, error) {
	query := `
	  insert into comments (username, message, device_id, hidden, created_at)
	  values ($1, $2, $3, $4, now())
	  returning id;`

	var id int64
	err := r.db.QueryRow(query, c.Username, c.Message, c.DeviceID, c.Hidden).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetVisibleComments() ([]Comment, error) {
	query := `
	  select id, username, message, device_id, hidden, created_at
	  from comments
	  where hidden=false
	  order by created_at desc;`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		c := Comment{}
		err = rows.Scan(&c.ID, &c.Username, &c.Message, &c.DeviceID, &c.Hidden, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *PostgresRepository) DeleteComment(id int64) error {
	res, err := r.db.Exec(`delete from comments where id=$1;`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) InsertReport(rep CommentReport) (int64, error) {
	query := `
	  insert into comment_reports (comment_id, reported_by, reason, created_at)
	  values ($1, $2, $3, now())
	  returning id;`

	var id int64
	err := r.db.QueryRow(query, rep.CommentID, rep.ReportedBy, rep.Reason).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetReports() ([]CommentReport, error) {
	query := `
	  select id, comment_id, coalesce(reported_by, ''), coalesce(reason, ''), created_at
	  from comment_reports
	  order by created_at desc;`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]CommentReport, 0)
	for rows.Next() {
		rep := CommentReport{}
		err = rows.Scan(&rep.ID, &rep.CommentID, &rep.ReportedBy, &rep.Reason, &rep.CreatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *PostgresRepository) IsAdminDevice(deviceID string) (bool, error) {
	query := `select 1 from devices where device_id=$1 and role='admin' and active=true limit 1;`

	var one int
	err := r.db.QueryRow(query, deviceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) close() {
	r.db.Close()
}
