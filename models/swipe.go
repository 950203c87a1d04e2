package models

// Swipe is an immutable one-directional decision: Status is true when the
// swiper is interested in the swiped user. The ordered pair (Swiper,
// Swiped) is unique; a second swipe on the same pair is rejected.
type Swipe struct {
	Swiper string `json:"swiper"`
	Swiped string `json:"swiped"`
	Status bool   `json:"status"`
}
