// Command seed loads the station's weekly schedule and presenter roster
// into the configured database. Safe to re-run: shows are inserted with
// on-conflict-do-nothing semantics keyed on title.
package main

import (
	"database/sql"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type seedShow struct {
	title      string
	start, end string
	days       []string
}

var shows = []seedShow{
	{"Asubuhi Leo", "06:00:00", "10:00:00", []string{"mon", "tue", "wed", "thu", "fri", "sat"}},
	{"Sports Power", "10:00:00", "13:00:00", []string{"mon", "tue", "wed", "thu", "fri"}},
	{"Extra Flavour", "13:00:00", "16:00:00", []string{"mon", "tue", "wed", "thu", "fri"}},
	{"The Benchi", "16:00:00", "19:00:00", []string{"mon", "tue", "wed", "thu", "fri"}},
	{"Sports Line", "20:00:00", "21:00:00", []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}},
	{"Mapito Yangu", "22:00:00", "23:59:00", []string{"mon", "tue", "wed", "thu"}},
	{"Night Show", "00:00:00", "06:00:00", []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}},
	{"Sauti Ya Watoto", "09:00:00", "10:00:00", []string{"sat"}},
	{"Ladha Ya Kusini", "10:00:00", "13:00:00", []string{"sat"}},
	{"Crayz Friday", "22:00:00", "23:59:00", []string{"fri"}},
	{"Kilimo Mkwanja", "13:00:00", "14:00:00", []string{"sat"}},
	{"Flash Back", "14:00:00", "16:00:00", []string{"sat"}},
	{"Mwanamke Jasiri", "16:00:00", "17:00:00", []string{"sat"}},
	{"Weekend Pause", "17:00:00", "19:00:00", []string{"sat"}},
	{"Bampa To Bampa", "22:00:00", "23:59:00", []string{"sat"}},
	{"Sayari Ya Upako", "06:00:00", "10:00:00", []string{"sun"}},
	{"Sunday Special", "10:00:00", "13:00:00", []string{"sun"}},
	{"Afya Solution", "13:00:00", "14:00:00", []string{"sun"}},
	{"Uplands Top 20", "14:00:00", "16:00:00", []string{"sun"}},
	{"Jahazi La Pwani", "16:00:00", "19:00:00", []string{"sun"}},
	{"Kali Za Kale", "22:00:00", "23:59:00", []string{"sun"}},
}

var presenters = map[string]string{
	"Uplands Team":  "Night Show",
	"Kids Crew":     "Sauti Ya Watoto",
	"Chef Tony":     "Ladha Ya Kusini",
	"Agro Experts":  "Kilimo Mkwanja",
	"DJ Flash":      "Flash Back",
	"Sarah":         "Mwanamke Jasiri",
	"Ben":           "Weekend Pause",
	"Emma":          "Weekend Pause",
	"DJ Max":        "Bampa To Bampa",
	"Sunny Crew":    "Sayari Ya Upako",
	"DJ Sun":        "Sunday Special",
	"Health Team":   "Afya Solution",
	"Top DJs":       "Uplands Top 20",
	"Coast Crew":    "Jahazi La Pwani",
	"DJ Oldies":     "Kali Za Kale",
	"DJ Ben":        "Asubuhi Leo",
	"Miss Glory":    "Asubuhi Leo",
	"Sports Desk":   "Sports Power",
	"Evening Crew":  "The Benchi",
	"Line Reporter": "Sports Line",
}

func main() {
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL is required")
	}
	u, err := url.Parse(dbUrl)
	if err != nil {
		log.Fatal("bad DB_URL: ", err)
	}

	switch u.Scheme {
	case "postgres":
		db, err := sql.Open("postgres", dbUrl)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		seedPostgres(db)
	case "sqlite":
		path := u.Hostname() + u.Path
		if path == "" {
			path = "db.sqlite3"
		}
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		seedSQLite(db)
	default:
		log.Fatal("unsupported DB_URL scheme: ", u.Scheme)
	}

	log.Println("seeded", len(shows), "shows and", len(presenters), "presenters")
}

func seedPostgres(db *sql.DB) {
	for _, s := range shows {
		_, err := db.Exec(
			`insert into shows (title, start_time, end_time, days)
			 values ($1, $2, $3, $4) on conflict (title) do nothing;`,
			s.title, s.start, s.end, pq.Array(s.days))
		if err != nil {
			log.Fatal("seed show ", s.title, ": ", err)
		}
	}
	for name, showTitle := range presenters {
		_, err := db.Exec(
			`insert into presenters (name, show_id)
			 select $1, id from shows where title=$2
			 on conflict do nothing;`,
			name, showTitle)
		if err != nil {
			log.Fatal("seed presenter ", name, ": ", err)
		}
	}
}

func seedSQLite(db *sql.DB) {
	for _, s := range shows {
		var exists int
		err := db.QueryRow(`select count(1) from shows where title=?;`, s.title).Scan(&exists)
		if err != nil {
			log.Fatal("seed show ", s.title, ": ", err)
		}
		if exists > 0 {
			continue
		}
		_, err = db.Exec(
			`insert into shows (title, start_time, end_time, days) values (?, ?, ?, ?);`,
			s.title, s.start, s.end, strings.Join(s.days, ","))
		if err != nil {
			log.Fatal("seed show ", s.title, ": ", err)
		}
	}
	for name, showTitle := range presenters {
		_, err := db.Exec(
			`insert into presenters (name, show_id)
			 select ?, id from shows where title=?
			 and not exists (select 1 from presenters where name=?);`,
			name, showTitle, name)
		if err != nil {
			log.Fatal("seed presenter ", name, ": ", err)
		}
	}
}
