package models

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PostcodeLookup is the subset of a postcodes.io response the search
// flow reads. A nil Result means the postcode did not resolve.
type PostcodeLookup struct {
	Result *PostcodeResult `json:"result"`
}

type PostcodeResult struct {
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
}

func (l *PostcodeLookup) Coordinate() (Coordinate, bool) {
	if l.Result == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: l.Result.Latitude, Longitude: l.Result.Longitude}, true
}
