package voice

import "context"

// StaticRecognizer returns a transcript supplied up front, for example on the
// command line.
type StaticRecognizer struct {
	Transcript string
}

// Available implements service.Recognizer.
func (r StaticRecognizer) Available() bool {
	return r.Transcript != ""
}

// Recognize implements service.Recognizer.
func (r StaticRecognizer) Recognize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.Transcript, nil
}
