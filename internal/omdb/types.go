package omdb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/voseflix/pkg/movie"
)

// notAvailable is OMDb's placeholder for a missing field.
const notAvailable = "N/A"

var (
	rtValuePattern = regexp.MustCompile(`(\d+)%`)
	mcValuePattern = regexp.MustCompile(`(\d+)/100`)
	yearPattern    = regexp.MustCompile(`(\d{4})`)
)

// response is the subset of the OMDb title response we read.
type response struct {
	Response   string   `json:"Response"`
	Error      string   `json:"Error"`
	IMDBRating string   `json:"imdbRating"`
	IMDBVotes  string   `json:"imdbVotes"`
	IMDBID     string   `json:"imdbID"`
	Ratings    []rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	Poster     string   `json:"Poster"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	BoxOffice  string   `json:"BoxOffice"`
}

type rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Supplement is what OMDb contributes to a movie. Zero values are absent.
type Supplement struct {
	IMDB           *movie.IMDBRating     `json:"imdb,omitempty"`
	IMDBID         string                `json:"imdb_id,omitempty"`
	RottenTomatoes *movie.RottenTomatoes `json:"rotten_tomatoes,omitempty"`
	Metacritic     *int                  `json:"metacritic,omitempty"`
	PosterURL      string                `json:"poster_url,omitempty"`
	Year           int                   `json:"year,omitempty"`
	MPAARating     string                `json:"mpaa_rating,omitempty"`
	Released       string                `json:"released,omitempty"`
	Director       string                `json:"director,omitempty"`
	Writer         string                `json:"writer,omitempty"`
	Actors         string                `json:"actors,omitempty"`
	Plot           string                `json:"plot,omitempty"`
	Language       string                `json:"language,omitempty"`
	Country        string                `json:"country,omitempty"`
	Awards         string                `json:"awards,omitempty"`
	BoxOffice      string                `json:"box_office,omitempty"`
}

// IsEmpty reports whether the supplement carries nothing.
func (s Supplement) IsEmpty() bool {
	return s == Supplement{}
}

// present returns v, or "" for OMDb's "N/A".
func present(v string) string {
	v = strings.TrimSpace(v)
	if v == notAvailable {
		return ""
	}
	return v
}

func (r response) supplement() Supplement {
	s := Supplement{
		IMDBID:     present(r.IMDBID),
		PosterURL:  present(r.Poster),
		MPAARating: present(r.Rated),
		Released:   present(r.Released),
		Director:   present(r.Director),
		Writer:     present(r.Writer),
		Actors:     present(r.Actors),
		Plot:       present(r.Plot),
		Language:   present(r.Language),
		Country:    present(r.Country),
		Awards:     present(r.Awards),
		BoxOffice:  present(r.BoxOffice),
	}

	if v := present(r.IMDBRating); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			votes, _ := strconv.Atoi(strings.ReplaceAll(present(r.IMDBVotes), ",", ""))
			s.IMDB = &movie.IMDBRating{Score: score, Votes: votes, ID: present(r.IMDBID)}
		}
	}

	for _, rt := range r.Ratings {
		switch rt.Source {
		case "Rotten Tomatoes":
			if m := rtValuePattern.FindStringSubmatch(rt.Value); m != nil {
				v, _ := strconv.Atoi(m[1])
				s.RottenTomatoes = &movie.RottenTomatoes{Critics: v}
			}
		case "Metacritic":
			if m := mcValuePattern.FindStringSubmatch(rt.Value); m != nil {
				v, _ := strconv.Atoi(m[1])
				s.Metacritic = &v
			}
		}
	}
	if s.Metacritic == nil {
		if v, err := strconv.Atoi(present(r.Metascore)); err == nil {
			s.Metacritic = &v
		}
	}

	if m := yearPattern.FindStringSubmatch(present(r.Year)); m != nil {
		s.Year, _ = strconv.Atoi(m[1])
	}
	return s
}

// Apply merges s into m. The IMDB rating always comes from s. Scraped
// Rotten Tomatoes and Metacritic scores win; s only fills them when absent.
// Poster, year and extended metadata from s overwrite when present.
func Apply(m *movie.Movie, s Supplement) {
	if s.IMDB != nil {
		imdb := *s.IMDB
		m.Ratings.IMDB = &imdb
	}
	overwrite(&m.IMDBID, s.IMDBID)
	if m.Ratings.RottenTomatoes == nil && s.RottenTomatoes != nil {
		rt := *s.RottenTomatoes
		m.Ratings.RottenTomatoes = &rt
	}
	if m.Ratings.Metacritic == nil && s.Metacritic != nil {
		mc := *s.Metacritic
		m.Ratings.Metacritic = &mc
	}

	if s.Year != 0 {
		m.Year = s.Year
	}
	overwrite(&m.PosterURL, s.PosterURL)
	overwrite(&m.MPAARating, s.MPAARating)
	overwrite(&m.Released, s.Released)
	overwrite(&m.Director, s.Director)
	overwrite(&m.Writer, s.Writer)
	overwrite(&m.Actors, s.Actors)
	overwrite(&m.Plot, s.Plot)
	overwrite(&m.Language, s.Language)
	overwrite(&m.Country, s.Country)
	overwrite(&m.Awards, s.Awards)
	overwrite(&m.BoxOffice, s.BoxOffice)
}

func overwrite(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
