package models

// ForecastResponse mirrors the OpenWeatherMap 5-day/3-hour forecast
// shape, limited to the fields the display derivation reads.
type ForecastResponse struct {
	City City            `json:"city"`
	List []ForecastEntry `json:"list"`
}

type City struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Coord    Coord  `json:"coord"`
	Timezone int    `json:"timezone"`
	Sunrise  int64  `json:"sunrise"`
	Sunset   int64  `json:"sunset"`
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ForecastEntry is one 3-hour reading in the provider's list.
type ForecastEntry struct {
	Dt      int64       `json:"dt"`
	DtTxt   string      `json:"dt_txt"`
	Main    EntryMain   `json:"main"`
	Wind    Wind        `json:"wind"`
	Weather []Condition `json:"weather"`
}

type EntryMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ConditionMain returns the categorical condition keyword of an entry,
// or "" when the provider sent no condition block.
func (e ForecastEntry) ConditionMain() string {
	if len(e.Weather) == 0 {
		return ""
	}
	return e.Weather[0].Main
}
