package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type GeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"` // [lon, lat]
	Accuracy    int       `bson:"accuracy"`
}

type AddressComponents struct {
	Line1      string `bson:"line1"`
	City       string `bson:"city"`
	State      string `bson:"state"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

type PreciseAddress struct {
	Precise    string            `bson:"precise"`
	Components AddressComponents `bson:"components"`
}

type ApproximateAddress struct {
	City      string `bson:"city"`
	State     string `bson:"state"`
	Country   string `bson:"country"`
	Formatted string `bson:"formatted"`
}

type Photo struct {
	Url          string `bson:"url"`
	ThumbnailUrl string `bson:"thumbnailUrl"`
	Width        int    `bson:"width"`
	Height       int    `bson:"height"`
	MimeType     string `bson:"mimeType"`
}

type Avatar struct {
	Url          string             `bson:"url"`
	ThumbnailUrl string             `bson:"thumbnailUrl"`
	Width        int                `bson:"width"`
	Height       int                `bson:"height"`
	MimeType     string             `bson:"mimeType"`
	UploadedAt   primitive.DateTime `bson:"uploadedAt"`
}

// ImageAttachment is a Photo tagged with its attachment type.
type ImageAttachment struct {
	Type         string `bson:"type"`
	Url          string `bson:"url"`
	ThumbnailUrl string `bson:"thumbnailUrl"`
	Width        int    `bson:"width"`
	Height       int    `bson:"height"`
	MimeType     string `bson:"mimeType"`
}

func NewImageAttachment(p Photo) ImageAttachment {
	return ImageAttachment{
		Type:         "image",
		Url:          p.Url,
		ThumbnailUrl: p.ThumbnailUrl,
		Width:        p.Width,
		Height:       p.Height,
		MimeType:     p.MimeType,
	}
}
