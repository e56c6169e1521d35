package model

type Attribute struct {
	TraitType   string `json:"trait_type,omitempty"`
	DisplayType string `json:"display_type,omitempty"`
	Value       any    `json:"value"`
}

type Metadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	ExternalURL string         `json:"external_url,omitempty"`
	Attributes  []Attribute    `json:"attributes,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

type Listing struct {
	NFTContract string    `json:"nft_contract"`
	TokenID     string    `json:"token_id"`
	Owner       string    `json:"owner"`
	User        string    `json:"user,omitempty"`
	PricePerDay string    `json:"price_per_day"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Duration    int64     `json:"duration"`
	Expires     string    `json:"expires,omitempty"`
	IsOwner     bool      `json:"is_owner"`
	IsUser      bool      `json:"is_user"`
	TokenURI    string    `json:"token_uri"`
	Metadata    *Metadata `json:"metadata"`
}

type ListingData struct {
	PricePerDay string `json:"price_per_day"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Duration    int64  `json:"duration"`
	Expires     string `json:"expires,omitempty"`
	User        string `json:"user,omitempty"`
}

type OwnedToken struct {
	NFTContract string       `json:"nft_contract"`
	TokenID     string       `json:"token_id"`
	TokenURI    string       `json:"token_uri,omitempty"`
	Metadata    *Metadata    `json:"metadata"`
	Listing     *ListingData `json:"listing"`
}

type GetListingsResponse struct {
	Account  string    `json:"account"`
	Listings []Listing `json:"listings"`
}

type GetOwnedTokensResponse struct {
	Account string       `json:"account"`
	Source  string       `json:"source"`
	Tokens  []OwnedToken `json:"tokens"`
}

type ActionResponse struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	TxHash string `json:"tx_hash"`
	Value  string `json:"value"`
}
