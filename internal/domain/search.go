package domain

// DefaultMaxDistance is the search radius in miles used when a query does not
// set one.
const DefaultMaxDistance = 10.0

// SearchQuery is the directory search request. It is never persisted.
type SearchQuery struct {
	NameQuery            string   `json:"nameQuery" validate:"max=200"`
	SelectedPrimaryTags  []string `json:"selectedPrimaryTags"`
	SelectedSubtags      []string `json:"selectedSubtags"`
	SelectedOptionalTags []string `json:"selectedOptionalTags"`
	MaxDistance          float64  `json:"maxDistance" validate:"gte=0"`
	OriginLat            float64  `json:"originLat" validate:"min=-90,max=90"`
	OriginLong           float64  `json:"originLong" validate:"min=-180,max=180"`
}

// SelectedTagIDs returns the union of primary, subtag and optional selections
// in that order.
func (q SearchQuery) SelectedTagIDs() []string {
	ids := make([]string, 0, len(q.SelectedPrimaryTags)+len(q.SelectedSubtags)+len(q.SelectedOptionalTags))
	ids = append(ids, q.SelectedPrimaryTags...)
	ids = append(ids, q.SelectedSubtags...)
	ids = append(ids, q.SelectedOptionalTags...)
	return ids
}

// SearchResponse is returned by the search endpoint.
type SearchResponse struct {
	Results []*OwnerWithTags `json:"results"`
	Count   int              `json:"count"`
}
