package domain

import "time"

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Display durations used by the pages.
const (
	ToastShort = 3 * time.Second
	ToastLong  = 5 * time.Second
)

// Toast is a transient acknowledgment shown on a page and dismissed automatically.
type Toast struct {
	ID         uint64        `json:"id"`
	Kind       ToastKind     `json:"kind"`
	Title      string        `json:"title,omitempty"`
	Text       string        `json:"text"`
	DisplayFor time.Duration `json:"-"`
	DisplayMS  int64         `json:"display_ms"`
	ShownAt    time.Time     `json:"shown_at"`
}

func SuccessToast(text string, displayFor time.Duration) Toast {
	return Toast{Kind: ToastSuccess, Text: text, DisplayFor: displayFor}
}

func ErrorToast(text string, displayFor time.Duration) Toast {
	return Toast{Kind: ToastError, Text: text, DisplayFor: displayFor}
}
