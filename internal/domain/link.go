package domain

import "time"

// UnknownUserAgent is stored when a visitor sends no User-Agent header.
const UnknownUserAgent = "unknown"

type Link struct {
	ID          int64     `json:"id" bson:"_id" gorm:"primaryKey"`
	OriginalURL string    `json:"original_url" bson:"original_url" gorm:"type:text;not null"`
	ShortCode   string    `json:"short_code" bson:"short_code" gorm:"size:16;uniqueIndex:links_short_code_unique;not null"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" gorm:"not null"`
}

type Visit struct {
	ID        int64     `json:"id" bson:"_id" gorm:"primaryKey"`
	LinkID    int64     `json:"link_id" bson:"link_id" gorm:"not null;index:visits_link_id_visited_at_idx,priority:1"`
	IP        string    `json:"ip" bson:"ip" gorm:"type:text;not null"`
	UserAgent string    `json:"user_agent" bson:"user_agent" gorm:"type:text;not null"`
	Location  Location  `json:"location" bson:"location" gorm:"serializer:json;type:jsonb;not null"`
	VisitedAt time.Time `json:"visited_at" bson:"visited_at" gorm:"not null;index:visits_link_id_visited_at_idx,priority:2"`
}

// Location is the ip-api.com lookup record. The zero value means the
// lookup was skipped or failed.
type Location struct {
	Status      string  `json:"status,omitempty" bson:"status,omitempty"`
	Country     string  `json:"country,omitempty" bson:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty" bson:"country_code,omitempty"`
	Region      string  `json:"region,omitempty" bson:"region,omitempty"`
	RegionName  string  `json:"regionName,omitempty" bson:"region_name,omitempty"`
	City        string  `json:"city,omitempty" bson:"city,omitempty"`
	Zip         string  `json:"zip,omitempty" bson:"zip,omitempty"`
	Lat         float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty" bson:"lon,omitempty"`
	Timezone    string  `json:"timezone,omitempty" bson:"timezone,omitempty"`
	ISP         string  `json:"isp,omitempty" bson:"isp,omitempty"`
	Org         string  `json:"org,omitempty" bson:"org,omitempty"`
	AS          string  `json:"as,omitempty" bson:"as,omitempty"`
	Query       string  `json:"query,omitempty" bson:"query,omitempty"`
}

func (l Location) IsEmpty() bool {
	return l == Location{}
}

type ShortenRequest struct {
	URL string `json:"url" form:"url"`
}

type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
}

type VisitsResponse struct {
	Visits []Visit `json:"visits"`
}
