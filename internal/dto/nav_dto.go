package dto

type NavEntryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
}

type NavResponse struct {
	Entries []NavEntryResponse `json:"entries"`
}

type BannerResponse struct {
	Message string `json:"message"`
}
