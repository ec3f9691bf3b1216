package countrystatecity

type CountryAPIResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ISO2      string `json:"iso2"`
	ISO3      string `json:"iso3,omitempty"`
	PhoneCode string `json:"phonecode,omitempty"`
	Capital   string `json:"capital,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Native    string `json:"native,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
}

type StateAPIResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

type CityAPIResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
