package util

import "errors"

var (
	ErrSeriesNotFound    = errors.New("series not found")
	ErrRoundNotFound     = errors.New("round not found")
	ErrGameNotFound      = errors.New("game not found")
	ErrAmbiguousGame     = errors.New("game name appears in several rounds, pass round or round.game")
	ErrTopicNotFound     = errors.New("topic not found")
	ErrSourceUnavailable = errors.New("sheet source unavailable")
	ErrReadOnlySource    = errors.New("series source is read-only")
	ErrInvalidRound      = errors.New("round must be a non-negative integer")
	ErrNoChartData       = errors.New("nothing to plot")
	ErrInvalidUploadType = errors.New("uploaded file is not a text sheet")
)
