// Package tmdb finds movie trailers through The Movie Database API.
package tmdb

import "strconv"

// Movie is a TMDB search result.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"` // "2024-03-01"
	PosterPath    string  `json:"poster_path"`  // "/abc123.jpg"
	VoteAverage   float64 `json:"vote_average"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *Movie) PosterURL(size string) string {
	if m.PosterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + m.PosterPath
}

type searchResponse struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

// Video is an entry in a movie's video list.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"` // "YouTube", "Vimeo"
	Type     string `json:"type"` // "Trailer", "Teaser", "Clip", ...
	Official bool   `json:"official"`
}

type videosResponse struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// siteYouTube is the only video host trailers are taken from.
const siteYouTube = "YouTube"

// PickTrailer chooses the best YouTube video: an official trailer, then any
// trailer, then a teaser, then anything. It returns false when there is no
// YouTube video.
func PickTrailer(videos []Video) (Video, bool) {
	var youtube []Video
	for _, v := range videos {
		if v.Site == siteYouTube && v.Key != "" {
			youtube = append(youtube, v)
		}
	}
	if len(youtube) == 0 {
		return Video{}, false
	}

	preferences := []func(Video) bool{
		func(v Video) bool { return v.Type == "Trailer" && v.Official },
		func(v Video) bool { return v.Type == "Trailer" },
		func(v Video) bool { return v.Type == "Teaser" },
	}
	for _, match := range preferences {
		for _, v := range youtube {
			if match(v) {
				return v, true
			}
		}
	}
	return youtube[0], true
}
