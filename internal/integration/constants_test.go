package integration_test

const (
	TestUserId = 1

	TestMovieTitle       = "Arrival"
	TestMovieDirector    = "Denis Villeneuve"
	TestMovieStudio      = "Paramount"
	TestMovieCast        = "Amy Adams, Jeremy Renner"
	TestMovieReleaseYear = 2016
	TestMoviePoster      = "arrival.png"

	TestBaseUrl = "http://localhost:3000"
)

// PNG signature followed by padding
var TestPosterContent = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 56)...)
