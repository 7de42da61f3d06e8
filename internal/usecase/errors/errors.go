package errors

import "errors"

// Input errors
var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrNoFixtures      = errors.New("no transcript fixtures found")
	ErrNoTemplates     = errors.New("no report templates found")
)

// AI errors
var (
	ErrEmptyResponse    = errors.New("empty response from model")
	ErrEmptyImagePrompt = errors.New("model returned an empty image prompt")
	ErrPromptTooLong    = errors.New("image prompt exceeds 900 characters")
	ErrNoImageData      = errors.New("image response had neither payload nor URL")
)

// Report errors
var (
	ErrEmptyPDF = errors.New("generated PDF is empty")
)
