package sources

// GraphQL documents accepted by the catalog. The enum type names carry the
// upstream's own spelling.
const (
	searchQuery = `query($search: SearchInput $limit: Int $page: Int $translationType: VaildTranslationTypeEnumType $countryOrigin: VaildCountryOriginEnumType) { shows(search: $search limit: $limit page: $page translationType: $translationType countryOrigin: $countryOrigin) { edges { _id name availableEpisodes __typename } }}`

	episodesQuery = `query ($showId: String!) { show(_id: $showId) { _id availableEpisodesDetail }}`

	sourcesQuery = `query ($showId: String!, $translationType: VaildTranslationTypeEnumType!, $episodeString: String!) { episode(showId: $showId translationType: $translationType episodeString: $episodeString) { episodeString sourceUrls }}`
)

type searchInput struct {
	AllowAdult   bool   `json:"allowAdult"`
	AllowUnknown bool   `json:"allowUnknown"`
	Query        string `json:"query"`
}

type searchVariables struct {
	Search          searchInput `json:"search"`
	Limit           int         `json:"limit"`
	Page            int         `json:"page"`
	TranslationType string      `json:"translationType"`
	CountryOrigin   string      `json:"countryOrigin"`
}

type episodesVariables struct {
	ShowID string `json:"showId"`
}

type sourcesVariables struct {
	ShowID          string `json:"showId"`
	TranslationType string `json:"translationType"`
	EpisodeString   string `json:"episodeString"`
}
