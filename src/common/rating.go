package common

import (
	"log"

	"github.com/tidwall/gjson"
)

// RatingHandler receives the donor named in a completed-request
// payload so a rating prompt can be shown for them. The rating flow
// itself lives outside this service.
type RatingHandler func(donorName string, data []byte)

var ratingHandler RatingHandler = func(donorName string, data []byte) {
	log.Printf("[rating] prompt requested for donor [%s]\n", donorName)
}

func SetRatingHandler(h RatingHandler) {
	if h != nil {
		ratingHandler = h
	}
}

// NotifyRatingPrompt extracts the donor from the confirmation payload
// and dispatches the rating prompt event.
func NotifyRatingPrompt(data []byte) {
	donor := gjson.GetBytes(data, "donor.name").String()
	if donor == "" {
		donor = gjson.GetBytes(data, "donorName").String()
	}
	ratingHandler(donor, data)
}
