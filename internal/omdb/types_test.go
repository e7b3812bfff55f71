package omdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/voseflix/pkg/movie"
)

func intPtr(v int) *int { return &v }

func TestApply_ScrapedScoresWin(t *testing.T) {
	m := movie.Movie{
		Title:     "Dune: Part Two",
		PosterURL: "https://img.englishcinemabarcelona.com/dune-two.jpg",
		Ratings: movie.Ratings{
			RottenTomatoes: &movie.RottenTomatoes{Critics: 90},
		},
	}
	s := Supplement{
		IMDB:           &movie.IMDBRating{Score: 8.5, Votes: 1000, ID: "tt15239678"},
		IMDBID:         "tt15239678",
		RottenTomatoes: &movie.RottenTomatoes{Critics: 92},
		Metacritic:     intPtr(79),
		PosterURL:      "https://m.media-amazon.com/images/dune2.jpg",
		Year:           2024,
		Director:       "Denis Villeneuve",
	}

	Apply(&m, s)

	assert.Equal(t, 90, m.Ratings.RottenTomatoes.Critics, "scraped value kept")
	require.NotNil(t, m.Ratings.Metacritic)
	assert.Equal(t, 79, *m.Ratings.Metacritic, "gap filled")
	require.NotNil(t, m.Ratings.IMDB)
	assert.Equal(t, 8.5, m.Ratings.IMDB.Score)
	assert.Equal(t, "tt15239678", m.IMDBID)
	assert.Equal(t, "https://m.media-amazon.com/images/dune2.jpg", m.PosterURL, "external poster overwrites")
	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, "Denis Villeneuve", m.Director)
}

func TestApply_EmptySupplementChangesNothing(t *testing.T) {
	m := movie.Movie{
		Title:     "Anora",
		PosterURL: "poster.jpg",
		Plot:      "scraped plot",
		Ratings:   movie.Ratings{Metacritic: intPtr(91)},
	}
	want := m

	Apply(&m, Supplement{})
	assert.Equal(t, want, m)
}

func TestApply_CopiesRatings(t *testing.T) {
	s := Supplement{Metacritic: intPtr(50)}
	var m movie.Movie
	Apply(&m, s)

	*s.Metacritic = 10
	assert.Equal(t, 50, *m.Ratings.Metacritic)
}

func TestApply_IMDBIDWithoutRating(t *testing.T) {
	var m movie.Movie
	Apply(&m, Supplement{IMDBID: "tt0000001"})

	assert.Nil(t, m.Ratings.IMDB)
	assert.Equal(t, "tt0000001", m.IMDBID)
}
