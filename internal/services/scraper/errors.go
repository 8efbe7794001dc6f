package scraper

import "errors"

var (
	ErrInvalidVideoID = errors.New("could not extract video ID")
	ErrVideoNotFound  = errors.New("video not found")
	ErrEmptyURL       = errors.New("URL is empty")
)
