// Package movie defines the showtime aggregation domain model: movies, their
// showtimes and cinemas, rating scores, and the rules for ordering and merging them.
package movie

// Listing is a coarse movie stub parsed from the homepage.
type Listing struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	PosterURL string `json:"poster_url"`
	Duration  int    `json:"duration"` // minutes, 0 when unknown
}

// Movie is a fully resolved movie. ID aliases Slug.
//
// Optional text fields are empty when unknown.
type Movie struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	PosterURL  string     `json:"poster_url"`
	Duration   int        `json:"duration"`
	Genres     []string   `json:"genres"`
	Ratings    Ratings    `json:"ratings"`
	Plot       string     `json:"plot,omitempty"`
	Director   string     `json:"director,omitempty"`
	Writer     string     `json:"writer,omitempty"`
	Actors     string     `json:"actors,omitempty"`
	Language   string     `json:"language,omitempty"`
	Country    string     `json:"country,omitempty"`
	Awards     string     `json:"awards,omitempty"`
	BoxOffice  string     `json:"box_office,omitempty"`
	MPAARating string     `json:"mpaa_rating,omitempty"`
	Released   string     `json:"release_date,omitempty"`
	TrailerKey string     `json:"trailer_key,omitempty"`
	IMDBID     string     `json:"imdb_id,omitempty"`
	Year       int        `json:"year,omitempty"`
	Showtimes  []Showtime `json:"showtimes"`
}

// FromListing creates a Movie seeded with a listing's fields.
func FromListing(l Listing) Movie {
	return Movie{
		ID:        l.Slug,
		Title:     l.Title,
		Slug:      l.Slug,
		PosterURL: l.PosterURL,
		Duration:  l.Duration,
	}
}

// Score returns the normalized 0-100 score for the movie's ratings.
func (m Movie) Score() (float64, bool) {
	return NormalizedScore(m.Ratings)
}

// Cinema is a screening venue. ID aliases Slug.
type Cinema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewCinema creates a Cinema identified by slug.
func NewCinema(slug, name string) Cinema {
	return Cinema{ID: slug, Name: name, Slug: slug}
}

// Showtime is a single screening. Date is "YYYY-MM-DD" and Time is a
// zero-padded local "HH:MM".
type Showtime struct {
	Cinema     Cinema `json:"cinema"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	BookingURL string `json:"booking_url"`
	ShowtimeID string `json:"showtime_id,omitempty"`
	MovieSlug  string `json:"movie_slug,omitempty"`
}

// ShowtimeKey identifies a screening slot.
type ShowtimeKey struct {
	CinemaSlug string
	Date       string
	Time       string
}

// Key returns the slot identity of the showtime.
func (s Showtime) Key() ShowtimeKey {
	return ShowtimeKey{CinemaSlug: s.Cinema.Slug, Date: s.Date, Time: s.Time}
}

// RottenTomatoes holds the critics score (0-100).
type RottenTomatoes struct {
	Critics int `json:"critics"`
}

// IMDBRating holds the IMDB score (0-10) and vote count.
type IMDBRating struct {
	Score float64 `json:"score"`
	Votes int     `json:"votes"`
	ID    string  `json:"id,omitempty"`
}

// Ratings groups independent, optional rating sources.
// A nil field means the value is unknown, not zero.
type Ratings struct {
	RottenTomatoes *RottenTomatoes `json:"rotten_tomatoes,omitempty"`
	Metacritic     *int            `json:"metacritic,omitempty"`
	IMDB           *IMDBRating     `json:"imdb,omitempty"`
}

// IsEmpty reports whether no rating source is known.
func (r Ratings) IsEmpty() bool {
	return r.RottenTomatoes == nil && r.Metacritic == nil && r.IMDB == nil
}
